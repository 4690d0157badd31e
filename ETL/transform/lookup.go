package transform

import (
	"database/sql"

	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// firstMatchIndex строит индекс "ключ -> первая запись во входном порядке".
// Повторяющиеся ключи подсчитываются и попадают в предупреждение.
func firstMatchIndex[T any](rows []T, key func(T) sql.NullString, relation string, logger *utils.ETLLogger) map[string]T {
	index := make(map[string]T, len(rows))
	duplicates := 0

	for _, row := range rows {
		k := key(row)
		if !k.Valid {
			continue
		}
		if _, exists := index[k.String]; exists {
			duplicates++
			continue
		}
		index[k.String] = row
	}

	if duplicates > 0 {
		logger.Warn("Отношение %s содержит %d повторяющихся ключей, используется первая запись", relation, duplicates)
	}

	return index
}

func validString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
