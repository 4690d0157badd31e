// routes/violation_handlers.go
package routes

import (
	"net/http"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// ViolationsResponse структура ответа API для нарушений целостности
type ViolationsResponse struct {
	Violations []models.Violation `json:"violations"`
	Count      int                `json:"count"`
}

// GetViolationsHandler обрабатывает запросы на получение нарушений последнего отчета.
// Параметр check фильтрует по имени проверки.
func GetViolationsHandler(repo models.ViolationRepository, logger *utils.ETLLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r, maxLimit)
		if !ok {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}

		violations, err := repo.GetViolations(r.Context(), r.URL.Query().Get("check"), limit)
		if err != nil {
			logger.Error("Ошибка при получении нарушений: %v", err)
			http.Error(w, "Ошибка при получении нарушений", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, ViolationsResponse{Violations: violations, Count: len(violations)})
	}
}
