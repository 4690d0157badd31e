package validate

// Имена проверок целостности
const (
	CheckCustomerKeyUnique = "customer_key_unique"
	CheckProductKeyUnique  = "product_key_unique"
	CheckFactCustomerRef   = "fact_customer_ref"
	CheckFactProductRef    = "fact_product_ref"
	CheckCustomerIDUnique  = "customer_id_unique"
	CheckProductIDUnique   = "product_id_unique"
	CheckProductIDNotNull  = "product_id_not_null"
	CheckUntrimmedText     = "untrimmed_text"
	CheckProductCost       = "product_cost"
	CheckProductDates      = "product_dates"
	CheckSalesDates        = "sales_dates"
	CheckSalesMetrics      = "sales_metrics"
	CheckBirthdateRange    = "birthdate_range"
	CheckEnumValue         = "enum_value"
)

// Ключи наборов наблюдаемых значений перечислений
const (
	EnumMaritalStatus = "marital_status"
	EnumCRMGender     = "crm_gender"
	EnumERPGender     = "erp_gender"
	EnumProductLine   = "product_line"
	EnumMaintenance   = "maintenance"
	EnumCountry       = "country"
)
