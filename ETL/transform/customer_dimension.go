package transform

import (
	"database/sql"
	"sort"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// CustomerDimensionBuilder отвечает за построение измерения клиентов
type CustomerDimensionBuilder struct {
	logger *utils.ETLLogger
}

// NewCustomerDimensionBuilder создает новый экземпляр CustomerDimensionBuilder
func NewCustomerDimensionBuilder(logger *utils.ETLLogger) *CustomerDimensionBuilder {
	return &CustomerDimensionBuilder{
		logger: logger,
	}
}

// Build обогащает профили CRM данными ERP и местоположением по номеру клиента
// и назначает суррогатные ключи 1..N в порядке возрастания идентификатора клиента
func (b *CustomerDimensionBuilder) Build(
	customers []models.CustomerProfile,
	erpCustomers []models.ErpCustomerDetail,
	locations []models.LocationRecord,
) []models.CustomerDimension {
	b.logger.Debug("Построение измерения клиентов: %d профилей", len(customers))

	erpByCID := firstMatchIndex(erpCustomers, func(e models.ErpCustomerDetail) sql.NullString { return e.CID }, "erp_cust_az12", b.logger)
	locationByCID := firstMatchIndex(locations, func(l models.LocationRecord) sql.NullString { return l.CID }, "erp_loc_a101", b.logger)

	ordered := make([]models.CustomerProfile, len(customers))
	copy(ordered, customers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	dimensions := make([]models.CustomerDimension, 0, len(ordered))
	for i, c := range ordered {
		dim := models.CustomerDimension{
			CustomerKey:    int64(i + 1),
			CustomerID:     c.ID,
			CustomerNumber: c.Key,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			MaritalStatus:  c.MaritalStatus,
			CreateDate:     c.CreateDate,
		}

		var erpGender sql.NullString
		if c.Key.Valid {
			if erp, ok := erpByCID[c.Key.String]; ok {
				dim.Birthdate = erp.Birthdate
				erpGender = validString(erp.Gender)
			}
			if loc, ok := locationByCID[c.Key.String]; ok {
				dim.Country = validString(loc.Country)
			}
		}
		dim.Gender = standardize.PreferLabel(c.Gender, erpGender)

		dimensions = append(dimensions, dim)
	}

	return dimensions
}
