package models

import (
	"context"
	"time"
)

// Статусы запуска ETL
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusFailed     = "failed"
)

// ETLRunLog представляет запись о запуске ETL процесса
type ETLRunLog struct {
	ID                   string    `json:"id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	FailedStage          string    `json:"failed_stage,omitempty"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ErrorCode            int       `json:"error_code,omitempty"`
	ErrorState           string    `json:"error_state,omitempty"`
	RawRows              int       `json:"raw_rows"`
	CleansedRows         int       `json:"cleansed_rows"`
	DimensionalRows      int       `json:"dimensional_rows"`
	ViolationsFound      int       `json:"violations_found"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// ETLStageLog представляет запись о выполнении одной стадии запуска
type ETLStageLog struct {
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Rows       int       `json:"rows"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}

// RunCounters содержит счетчики успешного запуска
type RunCounters struct {
	RawRows         int
	CleansedRows    int
	DimensionalRows int
	ViolationsFound int
}

// RunFailure описывает причину неудачного запуска
type RunFailure struct {
	Stage   string
	Message string
	Code    int
	State   string
}

// ETLLogRepository представляет репозиторий для работы с логами ETL
type ETLLogRepository interface {
	// CreateLogEntry создает новую запись о запуске ETL
	CreateLogEntry(ctx context.Context, id string, startTime time.Time) error

	// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
	UpdateLogEntrySuccess(ctx context.Context, id string, endTime time.Time, counters RunCounters) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
	UpdateLogEntryFailure(ctx context.Context, id string, endTime time.Time, failure RunFailure) error

	// AppendStage записывает результат стадии
	AppendStage(ctx context.Context, stage ETLStageLog) error

	// GetRun получает запуск по идентификатору
	GetRun(ctx context.Context, id string) (*ETLRunLog, error)

	// GetRecentRuns получает последние запуски, новые первыми
	GetRecentRuns(ctx context.Context, limit int) ([]ETLRunLog, error)

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
	GetLastSuccessfulRun(ctx context.Context) (*ETLRunLog, error)

	// GetStages получает стадии запуска в порядке выполнения
	GetStages(ctx context.Context, runID string) ([]ETLStageLog, error)
}
