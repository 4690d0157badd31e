package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// RawCustomerProfile представляет профиль клиента из CRM (crm_cust_info)
type RawCustomerProfile struct {
	ID            sql.NullInt64
	Key           sql.NullString
	FirstName     sql.NullString
	LastName      sql.NullString
	MaritalStatus sql.NullString
	Gender        sql.NullString
	CreateDate    sql.NullTime
}

// RawProductCatalogEntry представляет запись каталога продуктов из CRM (crm_prd_info)
type RawProductCatalogEntry struct {
	ID        sql.NullInt64
	Key       sql.NullString // составной ключ: категория + код продукта
	Name      sql.NullString
	Cost      decimal.NullDecimal
	Line      sql.NullString
	StartDate sql.NullTime
	EndDate   sql.NullTime
}

// RawSalesLine представляет строку продаж из CRM (crm_sales_details).
// Даты хранятся как целые числа YYYYMMDD, 0 означает неизвестную дату.
type RawSalesLine struct {
	OrderNumber sql.NullString
	ProductKey  sql.NullString
	CustomerID  sql.NullInt64
	OrderDate   sql.NullInt64
	ShipDate    sql.NullInt64
	DueDate     sql.NullInt64
	Sales       decimal.NullDecimal
	Quantity    sql.NullInt64
	Price       decimal.NullDecimal
}

// RawLocationRecord представляет местоположение клиента из ERP (erp_loc_a101)
type RawLocationRecord struct {
	CID     sql.NullString
	Country sql.NullString
}

// RawErpCustomerDetail представляет дополнительные данные клиента из ERP (erp_cust_az12)
type RawErpCustomerDetail struct {
	CID       sql.NullString
	Birthdate sql.NullTime
	Gender    sql.NullString
}

// RawCategoryEntry представляет категорию продукта из ERP (erp_px_cat_g1v2)
type RawCategoryEntry struct {
	ID          sql.NullString
	Category    sql.NullString
	Subcategory sql.NullString
	Maintenance sql.NullString
}

// RawData содержит данные, извлечённые из исходных систем
type RawData struct {
	Customers    []RawCustomerProfile
	Products     []RawProductCatalogEntry
	Sales        []RawSalesLine
	Locations    []RawLocationRecord
	ErpCustomers []RawErpCustomerDetail
	Categories   []RawCategoryEntry
}

// Rows возвращает общее количество сырых записей
func (d *RawData) Rows() int {
	return len(d.Customers) + len(d.Products) + len(d.Sales) +
		len(d.Locations) + len(d.ErpCustomers) + len(d.Categories)
}
