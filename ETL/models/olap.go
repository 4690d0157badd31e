package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// CustomerDimension представляет измерение клиентов (gold_dim_customers)
type CustomerDimension struct {
	CustomerKey    int64
	CustomerID     int64
	CustomerNumber sql.NullString
	FirstName      sql.NullString
	LastName       sql.NullString
	Country        sql.NullString
	MaritalStatus  string
	Gender         string
	Birthdate      sql.NullTime
	CreateDate     sql.NullTime
}

// ProductDimension представляет измерение продуктов (gold_dim_products), только актуальные версии
type ProductDimension struct {
	ProductKey    int64
	ProductID     sql.NullInt64
	ProductNumber sql.NullString
	ProductName   sql.NullString
	CategoryID    sql.NullString
	Category      sql.NullString
	Subcategory   sql.NullString
	Maintenance   sql.NullString
	Cost          decimal.Decimal
	ProductLine   string
	StartDate     sql.NullTime
}

// SalesFact представляет факт продаж (gold_fact_sales)
type SalesFact struct {
	OrderNumber  sql.NullString
	ProductKey   sql.NullInt64
	CustomerKey  sql.NullInt64
	OrderDate    sql.NullTime
	ShippingDate sql.NullTime
	DueDate      sql.NullTime
	SalesAmount  decimal.NullDecimal
	Quantity     sql.NullInt64
	Price        decimal.NullDecimal

	// Естественные ключи сохраняются для диагностики ссылочной целостности
	ProductNumber sql.NullString
	CustomerID    sql.NullInt64
}

// DimensionalModel содержит измерения и факты бизнес-слоя
type DimensionalModel struct {
	Customers []CustomerDimension
	Products  []ProductDimension
	Sales     []SalesFact
}

// Rows возвращает общее количество записей модели
func (m *DimensionalModel) Rows() int {
	return len(m.Customers) + len(m.Products) + len(m.Sales)
}
