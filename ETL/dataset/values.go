package dataset

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Форматы дат в публикуемых отношениях
const (
	DateLayout      = time.DateOnly
	TimestampLayout = time.DateTime
)

func nullString(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func nullInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func nullDecimal(v decimal.NullDecimal) any {
	if !v.Valid {
		return nil
	}
	return v.Decimal
}

func nullDate(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time.UTC().Format(DateLayout)
}

func nullTimestamp(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return formatTimestamp(v.Time)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
