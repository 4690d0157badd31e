// Package metrics содержит коллекторы Prometheus конвейера ETL.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sales_dwh"

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information of the ETL binary",
		},
		[]string{"version", "commit", "date"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"stage", "status"},
	)

	StageRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows",
			Help:      "Rows produced by the last execution of a stage",
		},
		[]string{"stage"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed pipeline runs by outcome",
		},
		[]string{"status"},
	)

	IntegrityViolations = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "integrity_violations",
			Help:      "Integrity violations found by the last run, per check",
		},
		[]string{"check"},
	)

	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		},
	)
)

// ObserveStage фиксирует длительность и объем стадии
func ObserveStage(stage string, duration time.Duration, rows int, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	StageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
	if err == nil {
		StageRows.WithLabelValues(stage).Set(float64(rows))
	}
}

// ObserveRun фиксирует итог запуска
func ObserveRun(status string, finishedAt time.Time) {
	RunsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		LastSuccessTimestamp.Set(float64(finishedAt.Unix()))
	}
}

// ObserveViolations заменяет значения нарушений по проверкам
func ObserveViolations(counts map[string]int) {
	IntegrityViolations.Reset()
	for check, n := range counts {
		IntegrityViolations.WithLabelValues(check).Set(float64(n))
	}
}
