package dataset

import "github.com/LilVoxy/sales_dwh/ETL/models"

// RawRelations описывает сырой слой в том виде, в каком он получен из выгрузок
func RawRelations(raw *models.RawData) []Relation {
	return []Relation{
		rel(models.BronzeCustomers, []Column{
			integer("cst_id"), text("cst_key"), text("cst_firstname"), text("cst_lastname"),
			text("cst_marital_status"), text("cst_gndr"), date("cst_create_date"),
		}, raw.Customers, func(c models.RawCustomerProfile) []any {
			return []any{
				nullInt(c.ID), nullString(c.Key), nullString(c.FirstName), nullString(c.LastName),
				nullString(c.MaritalStatus), nullString(c.Gender), nullDate(c.CreateDate),
			}
		}),
		rel(models.BronzeProducts, []Column{
			integer("prd_id"), text("prd_key"), text("prd_nm"), money("prd_cost"),
			text("prd_line"), timestamp("prd_start_dt"), timestamp("prd_end_dt"),
		}, raw.Products, func(p models.RawProductCatalogEntry) []any {
			return []any{
				nullInt(p.ID), nullString(p.Key), nullString(p.Name), nullDecimal(p.Cost),
				nullString(p.Line), nullTimestamp(p.StartDate), nullTimestamp(p.EndDate),
			}
		}),
		rel(models.BronzeSales, []Column{
			text("sls_ord_num"), text("sls_prd_key"), integer("sls_cust_id"),
			integer("sls_order_dt"), integer("sls_ship_dt"), integer("sls_due_dt"),
			money("sls_sales"), integer("sls_quantity"), money("sls_price"),
		}, raw.Sales, func(s models.RawSalesLine) []any {
			return []any{
				nullString(s.OrderNumber), nullString(s.ProductKey), nullInt(s.CustomerID),
				nullInt(s.OrderDate), nullInt(s.ShipDate), nullInt(s.DueDate),
				nullDecimal(s.Sales), nullInt(s.Quantity), nullDecimal(s.Price),
			}
		}),
		rel(models.BronzeErpCustomers, []Column{
			text("cid"), date("bdate"), text("gen"),
		}, raw.ErpCustomers, func(e models.RawErpCustomerDetail) []any {
			return []any{nullString(e.CID), nullDate(e.Birthdate), nullString(e.Gender)}
		}),
		rel(models.BronzeLocations, []Column{
			text("cid"), text("cntry"),
		}, raw.Locations, func(l models.RawLocationRecord) []any {
			return []any{nullString(l.CID), nullString(l.Country)}
		}),
		rel(models.BronzeCategories, []Column{
			text("id"), text("cat"), text("subcat"), text("maintenance"),
		}, raw.Categories, func(c models.RawCategoryEntry) []any {
			return []any{nullString(c.ID), nullString(c.Category), nullString(c.Subcategory), nullString(c.Maintenance)}
		}),
	}
}
