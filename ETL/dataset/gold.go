package dataset

import "github.com/LilVoxy/sales_dwh/ETL/models"

// DimensionalRelations описывает измерения и факты бизнес-слоя
func DimensionalRelations(m *models.DimensionalModel) []Relation {
	return []Relation{
		rel(models.GoldCustomers, []Column{
			integer("customer_key"), integer("customer_id"), text("customer_number"),
			text("first_name"), text("last_name"), text("country"), text("marital_status"),
			text("gender"), date("birthdate"), date("create_date"),
		}, m.Customers, func(c models.CustomerDimension) []any {
			return []any{
				c.CustomerKey, c.CustomerID, nullString(c.CustomerNumber),
				nullString(c.FirstName), nullString(c.LastName), nullString(c.Country), c.MaritalStatus,
				c.Gender, nullDate(c.Birthdate), nullDate(c.CreateDate),
			}
		}),
		rel(models.GoldProducts, []Column{
			integer("product_key"), integer("product_id"), text("product_number"), text("product_name"),
			text("category_id"), text("category"), text("subcategory"), text("maintenance"),
			money("cost"), text("product_line"), date("start_date"),
		}, m.Products, func(p models.ProductDimension) []any {
			return []any{
				p.ProductKey, nullInt(p.ProductID), nullString(p.ProductNumber), nullString(p.ProductName),
				nullString(p.CategoryID), nullString(p.Category), nullString(p.Subcategory), nullString(p.Maintenance),
				p.Cost, p.ProductLine, nullDate(p.StartDate),
			}
		}),
		rel(models.GoldSales, []Column{
			text("order_number"), integer("product_key"), integer("customer_key"),
			date("order_date"), date("shipping_date"), date("due_date"),
			money("sales_amount"), integer("quantity"), money("price"),
		}, m.Sales, func(s models.SalesFact) []any {
			return []any{
				nullString(s.OrderNumber), nullInt(s.ProductKey), nullInt(s.CustomerKey),
				nullDate(s.OrderDate), nullDate(s.ShippingDate), nullDate(s.DueDate),
				nullDecimal(s.SalesAmount), nullInt(s.Quantity), nullDecimal(s.Price),
			}
		}),
	}
}
