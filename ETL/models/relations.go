package models

// Имена публикуемых отношений хранилища
const (
	BronzeCustomers    = "bronze_crm_cust_info"
	BronzeProducts     = "bronze_crm_prd_info"
	BronzeSales        = "bronze_crm_sales_details"
	BronzeErpCustomers = "bronze_erp_cust_az12"
	BronzeLocations    = "bronze_erp_loc_a101"
	BronzeCategories   = "bronze_erp_px_cat_g1v2"

	SilverCustomers    = "silver_crm_cust_info"
	SilverProducts     = "silver_crm_prd_info"
	SilverSales        = "silver_crm_sales_details"
	SilverErpCustomers = "silver_erp_cust_az12"
	SilverLocations    = "silver_erp_loc_a101"
	SilverCategories   = "silver_erp_px_cat_g1v2"

	GoldCustomers = "gold_dim_customers"
	GoldProducts  = "gold_dim_products"
	GoldSales     = "gold_fact_sales"

	IntegrityViolations = "integrity_violations"
)
