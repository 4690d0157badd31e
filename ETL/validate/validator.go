// Package validate проверяет инварианты очищенного и бизнес-слоев.
// Проверки только читают данные и возвращают нарушения; нарушения
// не прерывают запуск.
package validate

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// DefaultBirthdateLowerBound - нижняя граница допустимой даты рождения
var DefaultBirthdateLowerBound = time.Date(1924, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	knownMaritalStatuses = []string{standardize.MaritalSingle, standardize.MaritalMarried, standardize.NotAvailable}
	knownGenders         = []string{standardize.GenderFemale, standardize.GenderMale, standardize.NotAvailable}
	knownProductLines    = []string{standardize.LineMountain, standardize.LineRoad, standardize.LineOtherSales, standardize.LineTouring, standardize.NotAvailable}
	knownMaintenance     = []string{"Yes", "No"}

	// коды стран, которые должны были быть раскрыты при очистке
	unresolvedCountryCodes = []string{"DE", "US", "USA"}
)

// Validator выполняет проверки целостности модели
type Validator struct {
	clock               clockwork.Clock
	logger              *utils.ETLLogger
	birthdateLowerBound time.Time
}

// NewValidator создает новый экземпляр Validator.
// Нулевая нижняя граница заменяется DefaultBirthdateLowerBound.
func NewValidator(clock clockwork.Clock, birthdateLowerBound time.Time, logger *utils.ETLLogger) *Validator {
	if birthdateLowerBound.IsZero() {
		birthdateLowerBound = DefaultBirthdateLowerBound
	}
	return &Validator{
		clock:               clock,
		logger:              logger,
		birthdateLowerBound: birthdateLowerBound,
	}
}

// Validate выполняет все проверки и возвращает отчет
func (v *Validator) Validate(ctx context.Context, cleansed *models.CleansedData, model *models.DimensionalModel) (*models.IntegrityReport, error) {
	startTime := time.Now()
	v.logger.Info("Начало проверки целостности")

	report := &models.IntegrityReport{
		CheckedAt:  v.clock.Now().UTC(),
		EnumValues: make(map[string][]string),
	}

	upperBound := cleansed.ProcessedAt
	if upperBound.IsZero() {
		upperBound = report.CheckedAt
	}

	checks := []func(*models.IntegrityReport){
		// 1. Бизнес-слой
		func(r *models.IntegrityReport) { checkCustomerKeys(r, model.Customers) },
		func(r *models.IntegrityReport) { checkProductKeys(r, model.Products) },
		func(r *models.IntegrityReport) { checkFactReferences(r, model) },
		// 2. Очищенный слой
		func(r *models.IntegrityReport) { checkCustomerProfiles(r, cleansed.Customers) },
		func(r *models.IntegrityReport) { checkProductCatalog(r, cleansed.Products) },
		func(r *models.IntegrityReport) { checkSalesLines(r, cleansed.Sales) },
		func(r *models.IntegrityReport) {
			checkBirthdates(r, cleansed.ErpCustomers, v.birthdateLowerBound, upperBound)
		},
		func(r *models.IntegrityReport) { checkEnums(r, cleansed) },
	}

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("проверка целостности прервана: %w", err)
		}
		check(report)
	}

	if report.OK() {
		v.logger.Info("Нарушений целостности не обнаружено. Длительность: %v", time.Since(startTime))
	} else {
		counts := report.CountByCheck()
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v.logger.Warn("Проверка %s: нарушений %d", name, counts[name])
		}
		v.logger.Info("Проверка целостности завершена: нарушений %d. Длительность: %v", len(report.Violations), time.Since(startTime))
	}

	return report, nil
}

func addViolation(r *models.IntegrityReport, check, layer, relation, key, detail string) {
	r.Violations = append(r.Violations, models.Violation{
		Check:      check,
		Layer:      layer,
		Relation:   relation,
		NaturalKey: key,
		Detail:     detail,
	})
}

func checkCustomerKeys(r *models.IntegrityReport, customers []models.CustomerDimension) {
	seen := make(map[int64]bool, len(customers))
	for _, c := range customers {
		if seen[c.CustomerKey] {
			addViolation(r, CheckCustomerKeyUnique, models.LayerDimensional, models.GoldCustomers,
				formatInt(c.CustomerID), fmt.Sprintf("повторяющийся customer_key %d", c.CustomerKey))
		}
		seen[c.CustomerKey] = true
	}
}

func checkProductKeys(r *models.IntegrityReport, products []models.ProductDimension) {
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		if seen[p.ProductKey] {
			addViolation(r, CheckProductKeyUnique, models.LayerDimensional, models.GoldProducts,
				nullString(p.ProductNumber), fmt.Sprintf("повторяющийся product_key %d", p.ProductKey))
		}
		seen[p.ProductKey] = true
	}
}

func checkFactReferences(r *models.IntegrityReport, model *models.DimensionalModel) {
	customerKeys := make(map[int64]bool, len(model.Customers))
	for _, c := range model.Customers {
		customerKeys[c.CustomerKey] = true
	}
	productKeys := make(map[int64]bool, len(model.Products))
	for _, p := range model.Products {
		productKeys[p.ProductKey] = true
	}

	for _, f := range model.Sales {
		order := nullString(f.OrderNumber)

		if !f.CustomerKey.Valid || !customerKeys[f.CustomerKey.Int64] {
			addViolation(r, CheckFactCustomerRef, models.LayerDimensional, models.GoldSales,
				order, "клиент не найден: cst_id="+nullInt(f.CustomerID))
		}
		if !f.ProductKey.Valid || !productKeys[f.ProductKey.Int64] {
			addViolation(r, CheckFactProductRef, models.LayerDimensional, models.GoldSales,
				order, "продукт не найден: prd_key="+nullString(f.ProductNumber))
		}
	}
}

func checkCustomerProfiles(r *models.IntegrityReport, customers []models.CustomerProfile) {
	seen := make(map[int64]bool, len(customers))
	for _, c := range customers {
		key := formatInt(c.ID)
		if seen[c.ID] {
			addViolation(r, CheckCustomerIDUnique, models.LayerCleansed, models.SilverCustomers, key, "повторяющийся cst_id")
		}
		seen[c.ID] = true

		checkTrimmed(r, models.SilverCustomers, key, "cst_key", c.Key.String)
		checkTrimmed(r, models.SilverCustomers, key, "cst_firstname", c.FirstName.String)
		checkTrimmed(r, models.SilverCustomers, key, "cst_lastname", c.LastName.String)
	}
}

func checkProductCatalog(r *models.IntegrityReport, products []models.ProductCatalogEntry) {
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		key := nullInt(p.ID)
		if !p.ID.Valid {
			addViolation(r, CheckProductIDNotNull, models.LayerCleansed, models.SilverProducts, nullString(p.Key), "prd_id равен NULL")
		} else {
			if seen[p.ID.Int64] {
				addViolation(r, CheckProductIDUnique, models.LayerCleansed, models.SilverProducts, key, "повторяющийся prd_id")
			}
			seen[p.ID.Int64] = true
		}

		checkTrimmed(r, models.SilverProducts, key, "prd_key", p.Key.String)
		checkTrimmed(r, models.SilverProducts, key, "prd_nm", p.Name.String)

		if p.Cost.IsNegative() {
			addViolation(r, CheckProductCost, models.LayerCleansed, models.SilverProducts, key, "отрицательная стоимость "+p.Cost.String())
		}
		if p.StartDate.Valid && p.EndDate.Valid && p.StartDate.Time.After(p.EndDate.Time) {
			addViolation(r, CheckProductDates, models.LayerCleansed, models.SilverProducts, key, "дата начала позже даты окончания")
		}
	}
}

func checkSalesLines(r *models.IntegrityReport, sales []models.SalesLine) {
	for _, s := range sales {
		key := nullString(s.OrderNumber)

		if s.OrderDate.Valid && s.ShipDate.Valid && s.OrderDate.Time.After(s.ShipDate.Time) {
			addViolation(r, CheckSalesDates, models.LayerCleansed, models.SilverSales, key, "дата заказа позже даты отгрузки")
		}
		if s.OrderDate.Valid && s.DueDate.Valid && s.OrderDate.Time.After(s.DueDate.Time) {
			addViolation(r, CheckSalesDates, models.LayerCleansed, models.SilverSales, key, "дата заказа позже срока оплаты")
		}

		if detail, bad := salesMetricsProblem(s); bad {
			addViolation(r, CheckSalesMetrics, models.LayerCleansed, models.SilverSales, key, detail)
		}
	}
}

func salesMetricsProblem(s models.SalesLine) (string, bool) {
	if !s.Sales.Valid || !s.Quantity.Valid || !s.Price.Valid {
		return "сумма, количество или цена равны NULL", true
	}
	if !s.Sales.Decimal.IsPositive() || s.Quantity.Int64 <= 0 || !s.Price.Decimal.IsPositive() {
		return "сумма, количество или цена не положительны", true
	}
	expected := decimal.NewFromInt(s.Quantity.Int64).Mul(s.Price.Decimal)
	if !s.Sales.Decimal.Equal(expected) {
		return fmt.Sprintf("сумма %s не равна количество * цена = %s", s.Sales.Decimal, expected), true
	}
	return "", false
}

func checkBirthdates(r *models.IntegrityReport, erp []models.ErpCustomerDetail, lower, upper time.Time) {
	for _, e := range erp {
		if !e.Birthdate.Valid {
			continue
		}
		if e.Birthdate.Time.Before(lower) || e.Birthdate.Time.After(upper) {
			addViolation(r, CheckBirthdateRange, models.LayerCleansed, models.SilverErpCustomers,
				nullString(e.CID), "дата рождения вне диапазона: "+e.Birthdate.Time.Format(time.DateOnly))
		}
	}
}

func checkTrimmed(r *models.IntegrityReport, relation, key, column, value string) {
	if value != strings.TrimSpace(value) {
		addViolation(r, CheckUntrimmedText, models.LayerCleansed, relation, key, fmt.Sprintf("%s содержит пробелы по краям", column))
	}
}

func checkEnums(r *models.IntegrityReport, cleansed *models.CleansedData) {
	marital := newValueSet()
	crmGender := newValueSet()
	for _, c := range cleansed.Customers {
		key := formatInt(c.ID)
		marital.add(c.MaritalStatus)
		crmGender.add(c.Gender)
		checkEnum(r, models.SilverCustomers, key, "cst_marital_status", c.MaritalStatus, knownMaritalStatuses)
		checkEnum(r, models.SilverCustomers, key, "cst_gndr", c.Gender, knownGenders)
	}

	erpGender := newValueSet()
	for _, e := range cleansed.ErpCustomers {
		erpGender.add(e.Gender)
		checkEnum(r, models.SilverErpCustomers, nullString(e.CID), "gen", e.Gender, knownGenders)
	}

	lines := newValueSet()
	for _, p := range cleansed.Products {
		lines.add(p.Line)
		checkEnum(r, models.SilverProducts, nullInt(p.ID), "prd_line", p.Line, knownProductLines)
	}

	maintenance := newValueSet()
	for _, c := range cleansed.Categories {
		if !c.Maintenance.Valid {
			continue
		}
		maintenance.add(c.Maintenance.String)
		checkEnum(r, models.SilverCategories, nullString(c.ID), "maintenance", c.Maintenance.String, knownMaintenance)
	}

	countries := newValueSet()
	for _, l := range cleansed.Locations {
		countries.add(l.Country)
		if l.Country == "" || slices.Contains(unresolvedCountryCodes, strings.ToUpper(l.Country)) {
			addViolation(r, CheckEnumValue, models.LayerCleansed, models.SilverLocations, nullString(l.CID),
				fmt.Sprintf("cntry: нераскрытое значение %q", l.Country))
		}
	}

	r.EnumValues[EnumMaritalStatus] = marital.sorted()
	r.EnumValues[EnumCRMGender] = crmGender.sorted()
	r.EnumValues[EnumERPGender] = erpGender.sorted()
	r.EnumValues[EnumProductLine] = lines.sorted()
	r.EnumValues[EnumMaintenance] = maintenance.sorted()
	r.EnumValues[EnumCountry] = countries.sorted()
}

func checkEnum(r *models.IntegrityReport, relation, key, column, value string, known []string) {
	if !slices.Contains(known, value) {
		addViolation(r, CheckEnumValue, models.LayerCleansed, relation, key, fmt.Sprintf("%s: неизвестное значение %q", column, value))
	}
}

type valueSet map[string]struct{}

func newValueSet() valueSet { return make(valueSet) }

func (s valueSet) add(v string) { s[v] = struct{}{} }

func (s valueSet) sorted() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
