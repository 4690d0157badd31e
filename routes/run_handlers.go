// routes/run_handlers.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// RunsResponse структура ответа API для списка запусков
type RunsResponse struct {
	Runs []models.ETLRunLog `json:"runs"`
}

// StagesResponse структура ответа API для стадий запуска
type StagesResponse struct {
	RunID  string               `json:"run_id"`
	Stages []models.ETLStageLog `json:"stages"`
}

// TriggerResponse структура ответа на запрос запуска
type TriggerResponse struct {
	Status string `json:"status"`
}

// GetRunsHandler обрабатывает запросы на получение последних запусков
func GetRunsHandler(logs models.ETLLogRepository, logger *utils.ETLLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(r, defaultLimit)
		if !ok {
			http.Error(w, "Неверный формат параметра limit", http.StatusBadRequest)
			return
		}

		runs, err := logs.GetRecentRuns(r.Context(), limit)
		if err != nil {
			logger.Error("Ошибка при получении журнала запусков: %v", err)
			http.Error(w, "Ошибка при получении журнала запусков", http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []models.ETLRunLog{}
		}

		writeJSON(w, logger, http.StatusOK, RunsResponse{Runs: runs})
	}
}

// GetRunHandler обрабатывает запросы на получение одного запуска
func GetRunHandler(logs models.ETLLogRepository, logger *utils.ETLLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		run, err := logs.GetRun(r.Context(), id)
		if err != nil {
			logger.Error("Ошибка при получении запуска %s: %v", id, err)
			http.Error(w, "Ошибка при получении запуска", http.StatusInternalServerError)
			return
		}
		if run == nil {
			http.Error(w, "Запуск не найден", http.StatusNotFound)
			return
		}

		writeJSON(w, logger, http.StatusOK, run)
	}
}

// GetRunStagesHandler обрабатывает запросы на получение стадий запуска
func GetRunStagesHandler(logs models.ETLLogRepository, logger *utils.ETLLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		run, err := logs.GetRun(r.Context(), id)
		if err != nil {
			logger.Error("Ошибка при получении запуска %s: %v", id, err)
			http.Error(w, "Ошибка при получении запуска", http.StatusInternalServerError)
			return
		}
		if run == nil {
			http.Error(w, "Запуск не найден", http.StatusNotFound)
			return
		}

		stages, err := logs.GetStages(r.Context(), id)
		if err != nil {
			logger.Error("Ошибка при получении стадий запуска %s: %v", id, err)
			http.Error(w, "Ошибка при получении стадий запуска", http.StatusInternalServerError)
			return
		}
		if stages == nil {
			stages = []models.ETLStageLog{}
		}

		writeJSON(w, logger, http.StatusOK, StagesResponse{RunID: id, Stages: stages})
	}
}

// TriggerRunHandler запускает полный запуск асинхронно
func TriggerRunHandler(trigger *RunTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := trigger.Start(); err != nil {
			http.Error(w, "Запуск ETL уже выполняется", http.StatusConflict)
			return
		}
		writeJSON(w, trigger.logger, http.StatusAccepted, TriggerResponse{Status: "accepted"})
	}
}
