// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// Deps - зависимости сервера отчетов
type Deps struct {
	Logs       models.ETLLogRepository
	Violations models.ViolationRepository
	Trigger    *RunTrigger

	// Progress обслуживает поток событий хода выполнения (может быть nil)
	Progress http.HandlerFunc
	Logger   *utils.ETLLogger
}

// SetupRoutes настраивает все маршруты API, WebSocket и метрик
func SetupRoutes(router *mux.Router, deps Deps) {
	router.Use(CORSMiddleware)

	// Журнал запусков
	router.HandleFunc("/api/runs", GetRunsHandler(deps.Logs, deps.Logger)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/runs", TriggerRunHandler(deps.Trigger)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/runs/{id}", GetRunHandler(deps.Logs, deps.Logger)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/runs/{id}/stages", GetRunStagesHandler(deps.Logs, deps.Logger)).Methods("GET", "OPTIONS")

	// Отчет о целостности
	router.HandleFunc("/api/violations", GetViolationsHandler(deps.Violations, deps.Logger)).Methods("GET", "OPTIONS")

	// Поток событий хода выполнения
	if deps.Progress != nil {
		router.HandleFunc("/ws/progress", deps.Progress)
	}

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// CORSMiddleware разрешает запросы к API с любого источника
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
