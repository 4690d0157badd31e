package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerProfile представляет очищенный профиль клиента (silver_crm_cust_info)
type CustomerProfile struct {
	ID            int64
	Key           sql.NullString
	FirstName     sql.NullString
	LastName      sql.NullString
	MaritalStatus string // 'Single', 'Married', 'n/a'
	Gender        string // 'Female', 'Male', 'n/a'
	CreateDate    sql.NullTime
	DWHCreateDate time.Time
}

// ProductCatalogEntry представляет очищенную запись каталога продуктов (silver_crm_prd_info)
type ProductCatalogEntry struct {
	ID            sql.NullInt64
	CategoryID    sql.NullString
	Key           sql.NullString
	Name          sql.NullString
	Cost          decimal.Decimal
	Line          string // 'Mountain', 'Road', 'Other Sales', 'Touring', 'n/a'
	StartDate     sql.NullTime
	EndDate       sql.NullTime // вычисляется по следующей дате начала
	DWHCreateDate time.Time
}

// SalesLine представляет очищенную строку продаж (silver_crm_sales_details)
type SalesLine struct {
	OrderNumber   sql.NullString
	ProductKey    sql.NullString
	CustomerID    sql.NullInt64
	OrderDate     sql.NullTime
	ShipDate      sql.NullTime
	DueDate       sql.NullTime
	Sales         decimal.NullDecimal
	Quantity      sql.NullInt64
	Price         decimal.NullDecimal
	DWHCreateDate time.Time
}

// LocationRecord представляет очищенное местоположение клиента (silver_erp_loc_a101)
type LocationRecord struct {
	CID           sql.NullString
	Country       string
	DWHCreateDate time.Time
}

// ErpCustomerDetail представляет очищенные данные клиента из ERP (silver_erp_cust_az12)
type ErpCustomerDetail struct {
	CID           sql.NullString
	Birthdate     sql.NullTime
	Gender        string
	DWHCreateDate time.Time
}

// CategoryEntry представляет категорию продукта (silver_erp_px_cat_g1v2), без преобразований
type CategoryEntry struct {
	ID            sql.NullString
	Category      sql.NullString
	Subcategory   sql.NullString
	Maintenance   sql.NullString
	DWHCreateDate time.Time
}

// CleansedData содержит очищенный слой
type CleansedData struct {
	Customers    []CustomerProfile
	Products     []ProductCatalogEntry
	Sales        []SalesLine
	Locations    []LocationRecord
	ErpCustomers []ErpCustomerDetail
	Categories   []CategoryEntry

	// ProcessedAt - время обработки, одинаковое для всех записей запуска
	ProcessedAt time.Time
}

// Rows возвращает общее количество очищенных записей
func (d *CleansedData) Rows() int {
	return len(d.Customers) + len(d.Products) + len(d.Sales) +
		len(d.Locations) + len(d.ErpCustomers) + len(d.Categories)
}
