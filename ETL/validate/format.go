package validate

import (
	"database/sql"
	"strconv"
)

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func nullInt(v sql.NullInt64) string {
	if !v.Valid {
		return "NULL"
	}
	return formatInt(v.Int64)
}

func nullString(v sql.NullString) string {
	if !v.Valid {
		return "NULL"
	}
	return v.String
}
