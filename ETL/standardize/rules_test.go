package standardize

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
func num(n int64) sql.NullInt64   { return sql.NullInt64{Int64: n, Valid: true} }
func dec(n int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(n), Valid: true}
}

func TestMaritalStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input sql.NullString
		want  string
	}{
		{"padded lowercase single", str(" s "), MaritalSingle},
		{"married", str("M"), MaritalMarried},
		{"unknown code", str("X"), NotAvailable},
		{"blank", str("  "), NotAvailable},
		{"null", sql.NullString{}, NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MaritalStatus(tt.input))
		})
	}
}

func TestGenders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GenderFemale, CRMGender(str("f")))
	assert.Equal(t, GenderMale, CRMGender(str(" M")))
	assert.Equal(t, NotAvailable, CRMGender(str("Male")), "CRM accepts single-letter codes only")
	assert.Equal(t, NotAvailable, CRMGender(sql.NullString{}))

	assert.Equal(t, GenderFemale, ERPGender(str("Female ")))
	assert.Equal(t, GenderFemale, ERPGender(str("F")))
	assert.Equal(t, GenderMale, ERPGender(str("male")))
	assert.Equal(t, NotAvailable, ERPGender(str("")))
	assert.Equal(t, NotAvailable, ERPGender(sql.NullString{}))
}

func TestProductLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LineMountain, ProductLine(str("M ")))
	assert.Equal(t, LineRoad, ProductLine(str("r")))
	assert.Equal(t, LineOtherSales, ProductLine(str("S")))
	assert.Equal(t, LineTouring, ProductLine(str("T")))
	assert.Equal(t, NotAvailable, ProductLine(str("Z")))
	assert.Equal(t, NotAvailable, ProductLine(sql.NullString{}))
}

func TestCountry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CountryGermany, Country(str("DE")))
	assert.Equal(t, CountryUnitedStates, Country(str("US")))
	assert.Equal(t, CountryUnitedStates, Country(str(" USA ")))
	assert.Equal(t, NotAvailable, Country(str("   ")))
	assert.Equal(t, NotAvailable, Country(sql.NullString{}))
	assert.Equal(t, "France", Country(str(" France  ")))
}

func TestPreferLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GenderMale, PreferLabel(GenderMale, str(GenderFemale)))
	assert.Equal(t, GenderFemale, PreferLabel(NotAvailable, str(GenderFemale)))
	assert.Equal(t, NotAvailable, PreferLabel(NotAvailable, sql.NullString{}))
	assert.Equal(t, NotAvailable, PreferLabel("", sql.NullString{}))
}

func TestSplitProductKey(t *testing.T) {
	t.Parallel()

	cat, key := SplitProductKey(str("AB-CD-1234"))
	assert.Equal(t, str("AB_CD"), cat)
	assert.Equal(t, str("1234"), key)

	cat, key = SplitProductKey(str("CO-RF-FR-R92B-58"))
	assert.Equal(t, str("CO_RF"), cat)
	assert.Equal(t, str("FR-R92B-58"), key)

	cat, key = SplitProductKey(str("AB-C"))
	assert.Equal(t, str("AB_C"), cat)
	assert.Equal(t, str(""), key)

	cat, key = SplitProductKey(sql.NullString{})
	assert.False(t, cat.Valid)
	assert.False(t, key.Valid)
}

func TestStripERPCustomerPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, str("00123"), StripERPCustomerPrefix(str("NAS00123")))
	assert.Equal(t, str("00123"), StripERPCustomerPrefix(str("00123")))
	assert.Equal(t, str("AW00011000"), StripERPCustomerPrefix(str("NASAW00011000")))
	assert.False(t, StripERPCustomerPrefix(sql.NullString{}).Valid)
}

func TestStripSeparators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, str("AW00011000"), StripSeparators(str("AW-00011000")))
	assert.Equal(t, str("AW00011000"), StripSeparators(str("AW00011000")))
}

func TestIntDate(t *testing.T) {
	t.Parallel()

	got := IntDate(num(20240115))
	require.True(t, got.Valid)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got.Time)

	for _, invalid := range []int64{0, 2024011, 202401150, 20241340, -2024011} {
		assert.False(t, IntDate(num(invalid)).Valid, "value %d must be null", invalid)
	}
	assert.False(t, IntDate(sql.NullInt64{}).Valid)
}

func TestDateHelpers(t *testing.T) {
	t.Parallel()

	ts := sql.NullTime{Time: time.Date(2011, 7, 1, 13, 45, 0, 0, time.UTC), Valid: true}
	day := DateOnly(ts)
	assert.Equal(t, time.Date(2011, 7, 1, 0, 0, 0, 0, time.UTC), day.Time)

	prev := DayBefore(day)
	assert.Equal(t, time.Date(2011, 6, 30, 0, 0, 0, 0, time.UTC), prev.Time)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := sql.NullTime{Time: now.AddDate(0, 0, 1), Valid: true}
	assert.False(t, NotAfter(future, now).Valid)
	assert.Equal(t, day, NotAfter(day, now))
}

func TestSalesAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   decimal.NullDecimal
		quantity sql.NullInt64
		price    decimal.NullDecimal
		want     decimal.NullDecimal
	}{
		{"zero amount recomputed", dec(0), num(3), dec(10), dec(30)},
		{"negative price uses absolute value", dec(30), num(3), dec(-10), dec(30)},
		{"inconsistent amount recomputed", dec(25), num(3), dec(10), dec(30)},
		{"null amount recomputed", decimal.NullDecimal{}, num(2), dec(7), dec(14)},
		{"consistent amount kept", dec(40), num(4), dec(10), dec(40)},
		{"null price keeps positive amount", dec(40), num(4), decimal.NullDecimal{}, dec(40)},
		{"null price and null amount stays null", decimal.NullDecimal{}, num(4), decimal.NullDecimal{}, decimal.NullDecimal{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SalesAmount(tt.amount, tt.quantity, tt.price)
			require.Equal(t, tt.want.Valid, got.Valid)
			if tt.want.Valid {
				assert.True(t, tt.want.Decimal.Equal(got.Decimal), "want %s, got %s", tt.want.Decimal, got.Decimal)
			}
		})
	}
}

func TestUnitPrice(t *testing.T) {
	t.Parallel()

	got := UnitPrice(dec(-10), dec(30), num(3))
	require.True(t, got.Valid)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Decimal))

	got = UnitPrice(decimal.NullDecimal{}, dec(10), num(3))
	require.True(t, got.Valid)
	assert.Equal(t, "3.33", got.Decimal.StringFixed(2))

	assert.False(t, UnitPrice(dec(0), dec(30), num(0)).Valid, "division by zero yields null")
	assert.False(t, UnitPrice(decimal.NullDecimal{}, decimal.NullDecimal{}, num(3)).Valid)

	kept := UnitPrice(dec(12), dec(30), num(3))
	assert.True(t, decimal.NewFromInt(12).Equal(kept.Decimal))
}

func TestCostOrZero(t *testing.T) {
	t.Parallel()

	assert.True(t, CostOrZero(decimal.NullDecimal{}).IsZero())
	assert.True(t, decimal.NewFromInt(12).Equal(CostOrZero(dec(12))))
}
