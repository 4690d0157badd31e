package extractors

import (
	"context"
	"fmt"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

var (
	customerColumns = []string{"cst_id", "cst_key", "cst_firstname", "cst_lastname", "cst_marital_status", "cst_gndr", "cst_create_date"}
	productColumns  = []string{"prd_id", "prd_key", "prd_nm", "prd_cost", "prd_line", "prd_start_dt", "prd_end_dt"}
	salesColumns    = []string{"sls_ord_num", "sls_prd_key", "sls_cust_id", "sls_order_dt", "sls_ship_dt", "sls_due_dt", "sls_sales", "sls_quantity", "sls_price"}
)

// CRMExtractor извлекает профили клиентов, каталог продуктов и продажи из выгрузки CRM
type CRMExtractor struct {
	logger *utils.ETLLogger
}

// NewCRMExtractor создает новый экземпляр CRMExtractor
func NewCRMExtractor(logger *utils.ETLLogger) *CRMExtractor {
	return &CRMExtractor{
		logger: logger,
	}
}

// ExtractCustomers читает профили клиентов
func (e *CRMExtractor) ExtractCustomers(ctx context.Context, path string) ([]models.RawCustomerProfile, error) {
	var customers []models.RawCustomerProfile
	n, err := readCSV(ctx, path, customerColumns, func(r *record) {
		customers = append(customers, models.RawCustomerProfile{
			ID:            r.Int(0),
			Key:           r.String(1),
			FirstName:     r.String(2),
			LastName:      r.String(3),
			MaritalStatus: r.String(4),
			Gender:        r.String(5),
			CreateDate:    r.Time(6),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения профилей клиентов: %w", err)
	}

	e.logger.Debug("Извлечено профилей клиентов: %d", n)
	return customers, nil
}

// ExtractProducts читает каталог продуктов
func (e *CRMExtractor) ExtractProducts(ctx context.Context, path string) ([]models.RawProductCatalogEntry, error) {
	var products []models.RawProductCatalogEntry
	n, err := readCSV(ctx, path, productColumns, func(r *record) {
		products = append(products, models.RawProductCatalogEntry{
			ID:        r.Int(0),
			Key:       r.String(1),
			Name:      r.String(2),
			Cost:      r.Decimal(3),
			Line:      r.String(4),
			StartDate: r.Time(5),
			EndDate:   r.Time(6),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения каталога продуктов: %w", err)
	}

	e.logger.Debug("Извлечено записей каталога: %d", n)
	return products, nil
}

// ExtractSales читает строки продаж
func (e *CRMExtractor) ExtractSales(ctx context.Context, path string) ([]models.RawSalesLine, error) {
	var sales []models.RawSalesLine
	n, err := readCSV(ctx, path, salesColumns, func(r *record) {
		sales = append(sales, models.RawSalesLine{
			OrderNumber: r.String(0),
			ProductKey:  r.String(1),
			CustomerID:  r.Int(2),
			OrderDate:   r.Int(3),
			ShipDate:    r.Int(4),
			DueDate:     r.Int(5),
			Sales:       r.Decimal(6),
			Quantity:    r.Int(7),
			Price:       r.Decimal(8),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения продаж: %w", err)
	}

	e.logger.Debug("Извлечено строк продаж: %d", n)
	return sales, nil
}
