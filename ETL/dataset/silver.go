package dataset

import "github.com/LilVoxy/sales_dwh/ETL/models"

// CleansedRelations описывает очищенный слой; каждое отношение несет dwh_create_date
func CleansedRelations(c *models.CleansedData) []Relation {
	return []Relation{
		rel(models.SilverCustomers, []Column{
			integer("cst_id"), text("cst_key"), text("cst_firstname"), text("cst_lastname"),
			text("cst_marital_status"), text("cst_gndr"), date("cst_create_date"), timestamp("dwh_create_date"),
		}, c.Customers, func(p models.CustomerProfile) []any {
			return []any{
				p.ID, nullString(p.Key), nullString(p.FirstName), nullString(p.LastName),
				p.MaritalStatus, p.Gender, nullDate(p.CreateDate), formatTimestamp(p.DWHCreateDate),
			}
		}),
		rel(models.SilverProducts, []Column{
			integer("prd_id"), text("cat_id"), text("prd_key"), text("prd_nm"), money("prd_cost"),
			text("prd_line"), date("prd_start_dt"), date("prd_end_dt"), timestamp("dwh_create_date"),
		}, c.Products, func(p models.ProductCatalogEntry) []any {
			return []any{
				nullInt(p.ID), nullString(p.CategoryID), nullString(p.Key), nullString(p.Name), p.Cost,
				p.Line, nullDate(p.StartDate), nullDate(p.EndDate), formatTimestamp(p.DWHCreateDate),
			}
		}),
		rel(models.SilverSales, []Column{
			text("sls_ord_num"), text("sls_prd_key"), integer("sls_cust_id"),
			date("sls_order_dt"), date("sls_ship_dt"), date("sls_due_dt"),
			money("sls_sales"), integer("sls_quantity"), money("sls_price"), timestamp("dwh_create_date"),
		}, c.Sales, func(s models.SalesLine) []any {
			return []any{
				nullString(s.OrderNumber), nullString(s.ProductKey), nullInt(s.CustomerID),
				nullDate(s.OrderDate), nullDate(s.ShipDate), nullDate(s.DueDate),
				nullDecimal(s.Sales), nullInt(s.Quantity), nullDecimal(s.Price), formatTimestamp(s.DWHCreateDate),
			}
		}),
		rel(models.SilverErpCustomers, []Column{
			text("cid"), date("bdate"), text("gen"), timestamp("dwh_create_date"),
		}, c.ErpCustomers, func(e models.ErpCustomerDetail) []any {
			return []any{nullString(e.CID), nullDate(e.Birthdate), e.Gender, formatTimestamp(e.DWHCreateDate)}
		}),
		rel(models.SilverLocations, []Column{
			text("cid"), text("cntry"), timestamp("dwh_create_date"),
		}, c.Locations, func(l models.LocationRecord) []any {
			return []any{nullString(l.CID), l.Country, formatTimestamp(l.DWHCreateDate)}
		}),
		rel(models.SilverCategories, []Column{
			text("id"), text("cat"), text("subcat"), text("maintenance"), timestamp("dwh_create_date"),
		}, c.Categories, func(e models.CategoryEntry) []any {
			return []any{
				nullString(e.ID), nullString(e.Category), nullString(e.Subcategory), nullString(e.Maintenance),
				formatTimestamp(e.DWHCreateDate),
			}
		}),
	}
}
