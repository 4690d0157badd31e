package pipeline

import "time"

// Типы событий хода выполнения
const (
	EventStageStarted   = "stage_started"
	EventStageCompleted = "stage_completed"
	EventStageFailed    = "stage_failed"
	EventRunStarted     = "run_started"
	EventRunCompleted   = "run_completed"
	EventRunFailed      = "run_failed"
)

// ProgressEvent - событие хода выполнения запуска
type ProgressEvent struct {
	Type       string    `json:"type"`
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProgressSink получает события хода выполнения; реализация не должна блокировать
type ProgressSink interface {
	Publish(event ProgressEvent)
}
