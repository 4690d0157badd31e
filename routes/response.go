// routes/response.go
package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

const (
	defaultLimit = 20
	maxLimit     = 1000
)

// writeJSON кодирует ответ в JSON
func writeJSON(w http.ResponseWriter, logger *utils.ETLLogger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Ошибка при кодировании JSON: %v", err)
	}
}

// parseLimit читает параметр limit; отсутствующий параметр - значение по умолчанию
func parseLimit(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, maxLimit), true
}
