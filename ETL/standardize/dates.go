package standardize

import (
	"database/sql"
	"strconv"
	"time"
)

const intDateLayout = "20060102"

// IntDate разбирает дату в формате целого числа YYYYMMDD.
// 0, NULL, число с количеством цифр, отличным от 8, и несуществующая
// календарная дата приводятся к NULL.
func IntDate(value sql.NullInt64) sql.NullTime {
	if !value.Valid || value.Int64 == 0 {
		return sql.NullTime{}
	}

	digits := strconv.FormatInt(value.Int64, 10)
	if len(digits) != len(intDateLayout) {
		return sql.NullTime{}
	}

	parsed, err := time.Parse(intDateLayout, digits)
	if err != nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: parsed, Valid: true}
}

// DateOnly отбрасывает время суток, оставляя календарную дату в UTC
func DateOnly(value sql.NullTime) sql.NullTime {
	if !value.Valid {
		return value
	}
	return sql.NullTime{Time: truncateDay(value.Time), Valid: true}
}

// NotAfter обнуляет дату, лежащую в будущем относительно now
func NotAfter(value sql.NullTime, now time.Time) sql.NullTime {
	if !value.Valid || value.Time.After(now) {
		return sql.NullTime{}
	}
	return value
}

// DayBefore возвращает дату на один день раньше
func DayBefore(value sql.NullTime) sql.NullTime {
	if !value.Valid {
		return value
	}
	return sql.NullTime{Time: value.Time.AddDate(0, 0, -1), Valid: true}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
