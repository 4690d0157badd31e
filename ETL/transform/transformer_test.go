package transform

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
func num(n int64) sql.NullInt64   { return sql.NullInt64{Int64: n, Valid: true} }
func day(y int, m time.Month, d int) sql.NullTime {
	return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func sampleCleansed() *models.CleansedData {
	return &models.CleansedData{
		Customers: []models.CustomerProfile{
			{ID: 30, Key: str("AW30"), Gender: "n/a", MaritalStatus: "Married"},
			{ID: 10, Key: str("AW10"), Gender: "Male", MaritalStatus: "Single"},
			{ID: 20, Key: str("AW20"), Gender: "n/a", MaritalStatus: "n/a"},
		},
		ErpCustomers: []models.ErpCustomerDetail{
			{CID: str("AW30"), Gender: "Female", Birthdate: day(1980, 1, 1)},
			{CID: str("AW30"), Gender: "Male"},
			{CID: str("AW10"), Gender: "Female"},
		},
		Locations: []models.LocationRecord{
			{CID: str("AW10"), Country: "Germany"},
		},
		Products: []models.ProductCatalogEntry{
			{ID: num(1), CategoryID: str("AC_BR"), Key: str("P-B"), StartDate: day(2020, 1, 1)},
			{ID: num(2), CategoryID: str("AC_BR"), Key: str("P-A"), StartDate: day(2020, 1, 1)},
			{ID: num(3), CategoryID: str("BI_RB"), Key: str("P-C"), StartDate: day(2019, 1, 1), EndDate: day(2019, 12, 31)},
			{ID: num(4), CategoryID: str("XX_XX"), Key: str("P-D"), Cost: decimal.NewFromInt(5)},
		},
		Categories: []models.CategoryEntry{
			{ID: str("AC_BR"), Category: str("Accessories"), Subcategory: str("Brakes"), Maintenance: str("Yes")},
		},
		Sales: []models.SalesLine{
			{OrderNumber: str("SO1"), ProductKey: str("P-A"), CustomerID: num(10)},
			{OrderNumber: str("SO2"), ProductKey: str("P-C"), CustomerID: num(99)},
		},
	}
}

func TestCustomerDimensionBuilder(t *testing.T) {
	t.Parallel()

	cleansed := sampleCleansed()
	dims := NewCustomerDimensionBuilder(utils.NewNopLogger()).Build(cleansed.Customers, cleansed.ErpCustomers, cleansed.Locations)
	require.Len(t, dims, 3)

	for i, d := range dims {
		assert.Equal(t, int64(i+1), d.CustomerKey, "keys are dense and ordered by customer id")
	}
	assert.Equal(t, []int64{10, 20, 30}, []int64{dims[0].CustomerID, dims[1].CustomerID, dims[2].CustomerID})

	assert.Equal(t, "Male", dims[0].Gender, "CRM gender wins when known")
	assert.Equal(t, "Germany", dims[0].Country.String)

	assert.Equal(t, "n/a", dims[1].Gender, "no ERP match falls back to n/a")
	assert.False(t, dims[1].Country.Valid)

	assert.Equal(t, "Female", dims[2].Gender, "first ERP match is used")
	assert.Equal(t, day(1980, 1, 1), dims[2].Birthdate)
}

func TestProductDimensionBuilder(t *testing.T) {
	t.Parallel()

	cleansed := sampleCleansed()
	dims := NewProductDimensionBuilder(utils.NewNopLogger()).Build(cleansed.Products, cleansed.Categories)
	require.Len(t, dims, 3, "historical versions are excluded")

	assert.Equal(t, "P-D", dims[0].ProductNumber.String, "null start date sorts first")
	assert.Equal(t, "P-A", dims[1].ProductNumber.String)
	assert.Equal(t, "P-B", dims[2].ProductNumber.String)

	for i, d := range dims {
		assert.Equal(t, int64(i+1), d.ProductKey)
	}

	assert.Equal(t, "Accessories", dims[1].Category.String)
	assert.Equal(t, "Yes", dims[1].Maintenance.String)
	assert.False(t, dims[0].Category.Valid)
}

func TestTransformResolvesFactKeys(t *testing.T) {
	t.Parallel()

	model, err := NewTransformer(utils.NewNopLogger()).Transform(context.Background(), sampleCleansed())
	require.NoError(t, err)
	require.Len(t, model.Sales, 2)

	first := model.Sales[0]
	assert.Equal(t, num(2), first.ProductKey)
	assert.Equal(t, num(1), first.CustomerKey)

	second := model.Sales[1]
	assert.False(t, second.ProductKey.Valid, "historical product is not in the dimension")
	assert.False(t, second.CustomerKey.Valid)
	assert.Equal(t, str("P-C"), second.ProductNumber)
	assert.Equal(t, num(99), second.CustomerID)

	assert.Equal(t, 8, model.Rows())
}

func TestTransformIsDeterministic(t *testing.T) {
	t.Parallel()

	tr := NewTransformer(utils.NewNopLogger())
	first, err := tr.Transform(context.Background(), sampleCleansed())
	require.NoError(t, err)
	second, err := tr.Transform(context.Background(), sampleCleansed())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildDimensionsHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTransformer(utils.NewNopLogger()).BuildDimensions(ctx, sampleCleansed())
	require.ErrorIs(t, err, context.Canceled)
}
