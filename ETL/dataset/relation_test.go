package dataset

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/sales_dwh/ETL/models"
)

var processedAt = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func allRelations() []Relation {
	raw := &models.RawData{
		Customers:    []models.RawCustomerProfile{{ID: sql.NullInt64{Int64: 1, Valid: true}}},
		Products:     []models.RawProductCatalogEntry{{}},
		Sales:        []models.RawSalesLine{{}},
		ErpCustomers: []models.RawErpCustomerDetail{{}},
		Locations:    []models.RawLocationRecord{{}},
		Categories:   []models.RawCategoryEntry{{}},
	}
	cleansed := &models.CleansedData{
		Customers:    []models.CustomerProfile{{ID: 1, DWHCreateDate: processedAt}},
		Products:     []models.ProductCatalogEntry{{Cost: decimal.NewFromInt(3), DWHCreateDate: processedAt}},
		Sales:        []models.SalesLine{{DWHCreateDate: processedAt}},
		ErpCustomers: []models.ErpCustomerDetail{{DWHCreateDate: processedAt}},
		Locations:    []models.LocationRecord{{DWHCreateDate: processedAt}},
		Categories:   []models.CategoryEntry{{DWHCreateDate: processedAt}},
	}
	model := &models.DimensionalModel{
		Customers: []models.CustomerDimension{{CustomerKey: 1}},
		Products:  []models.ProductDimension{{ProductKey: 1}},
		Sales:     []models.SalesFact{{}},
	}
	report := &models.IntegrityReport{CheckedAt: processedAt, Violations: []models.Violation{{Check: "x"}}}

	var rels []Relation
	rels = append(rels, RawRelations(raw)...)
	rels = append(rels, CleansedRelations(cleansed)...)
	rels = append(rels, DimensionalRelations(model)...)
	rels = append(rels, ViolationsRelation("run-1", report))
	return rels
}

func TestRelationsRowsMatchColumns(t *testing.T) {
	t.Parallel()

	rels := allRelations()
	require.Len(t, rels, 16)

	names := make(map[string]bool)
	for _, r := range rels {
		assert.False(t, names[r.Name], "duplicate relation %s", r.Name)
		names[r.Name] = true

		require.Equal(t, 1, r.Count, r.Name)
		assert.Len(t, r.Row(0), len(r.Columns), r.Name)
	}
	assert.Equal(t, 16, Rows(rels))
}

func TestRelationValueFormatting(t *testing.T) {
	t.Parallel()

	cleansed := &models.CleansedData{
		Sales: []models.SalesLine{{
			OrderNumber:   sql.NullString{String: "SO1", Valid: true},
			OrderDate:     sql.NullTime{Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Valid: true},
			Sales:         decimal.NullDecimal{Decimal: decimal.NewFromInt(30), Valid: true},
			DWHCreateDate: processedAt,
		}},
	}

	var sales Relation
	for _, r := range CleansedRelations(cleansed) {
		if r.Name == models.SilverSales {
			sales = r
		}
	}
	require.Equal(t, 1, sales.Count)

	row := sales.Row(0)
	assert.Equal(t, "SO1", row[0])
	assert.Nil(t, row[1], "null text stays nil")
	assert.Equal(t, "2024-01-15", row[3])
	assert.Nil(t, row[4])
	assert.True(t, decimal.NewFromInt(30).Equal(row[6].(decimal.Decimal)))
	assert.Equal(t, "2026-03-01 10:30:00", row[9])
	assert.Equal(t, "sls_ord_num", sales.ColumnNames()[0])
}
