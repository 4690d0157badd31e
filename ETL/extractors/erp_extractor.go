package extractors

import (
	"context"
	"fmt"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

var (
	erpCustomerColumns = []string{"cid", "bdate", "gen"}
	locationColumns    = []string{"cid", "cntry"}
	categoryColumns    = []string{"id", "cat", "subcat", "maintenance"}
)

// ERPExtractor извлекает данные клиентов, местоположения и категории из выгрузки ERP
type ERPExtractor struct {
	logger *utils.ETLLogger
}

// NewERPExtractor создает новый экземпляр ERPExtractor
func NewERPExtractor(logger *utils.ETLLogger) *ERPExtractor {
	return &ERPExtractor{
		logger: logger,
	}
}

// ExtractCustomers читает дополнительные данные клиентов
func (e *ERPExtractor) ExtractCustomers(ctx context.Context, path string) ([]models.RawErpCustomerDetail, error) {
	var customers []models.RawErpCustomerDetail
	n, err := readCSV(ctx, path, erpCustomerColumns, func(r *record) {
		customers = append(customers, models.RawErpCustomerDetail{
			CID:       r.String(0),
			Birthdate: r.Time(1),
			Gender:    r.String(2),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения клиентов ERP: %w", err)
	}

	e.logger.Debug("Извлечено клиентов ERP: %d", n)
	return customers, nil
}

// ExtractLocations читает местоположения клиентов
func (e *ERPExtractor) ExtractLocations(ctx context.Context, path string) ([]models.RawLocationRecord, error) {
	var locations []models.RawLocationRecord
	n, err := readCSV(ctx, path, locationColumns, func(r *record) {
		locations = append(locations, models.RawLocationRecord{
			CID:     r.String(0),
			Country: r.String(1),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения местоположений: %w", err)
	}

	e.logger.Debug("Извлечено местоположений: %d", n)
	return locations, nil
}

// ExtractCategories читает категории продуктов
func (e *ERPExtractor) ExtractCategories(ctx context.Context, path string) ([]models.RawCategoryEntry, error) {
	var categories []models.RawCategoryEntry
	n, err := readCSV(ctx, path, categoryColumns, func(r *record) {
		categories = append(categories, models.RawCategoryEntry{
			ID:          r.String(0),
			Category:    r.String(1),
			Subcategory: r.String(2),
			Maintenance: r.String(3),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения категорий: %w", err)
	}

	e.logger.Debug("Извлечено категорий: %d", n)
	return categories, nil
}
