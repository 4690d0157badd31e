package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

// SQLETLLogRepository реализация ETLLogRepository поверх database/sql.
// Запросы используют плейсхолдеры '?', общие для MySQL и SQLite.
type SQLETLLogRepository struct {
	db *sql.DB
}

// NewSQLETLLogRepository создает новый экземпляр SQLETLLogRepository
func NewSQLETLLogRepository(db *sql.DB) *SQLETLLogRepository {
	return &SQLETLLogRepository{
		db: db,
	}
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *SQLETLLogRepository) CreateLogEntry(ctx context.Context, id string, startTime time.Time) error {
	query := `
	INSERT INTO etl_run_log (id, start_time, status)
	VALUES (?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, id, formatTimestamp(startTime), RunStatusInProgress); err != nil {
		return fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	return nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
func (r *SQLETLLogRepository) UpdateLogEntrySuccess(ctx context.Context, id string, endTime time.Time, counters RunCounters) error {
	startTime, err := r.startTime(ctx, id)
	if err != nil {
		return err
	}

	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = ?,
		raw_rows = ?,
		cleansed_rows = ?,
		dimensional_rows = ?,
		violations_found = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		formatTimestamp(endTime),
		RunStatusSuccess,
		counters.RawRows,
		counters.CleansedRows,
		counters.DimensionalRows,
		counters.ViolationsFound,
		endTime.Sub(startTime).Seconds(),
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
func (r *SQLETLLogRepository) UpdateLogEntryFailure(ctx context.Context, id string, endTime time.Time, failure RunFailure) error {
	startTime, err := r.startTime(ctx, id)
	if err != nil {
		return err
	}

	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = ?,
		failed_stage = ?,
		error_message = ?,
		error_code = ?,
		error_state = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		formatTimestamp(endTime),
		RunStatusFailed,
		failure.Stage,
		failure.Message,
		failure.Code,
		failure.State,
		endTime.Sub(startTime).Seconds(),
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// AppendStage записывает результат стадии
func (r *SQLETLLogRepository) AppendStage(ctx context.Context, stage ETLStageLog) error {
	query := `
	INSERT INTO etl_stage_log (run_id, stage, started_at, duration_ms, row_count, status, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		stage.RunID,
		stage.Stage,
		formatTimestamp(stage.StartedAt),
		stage.DurationMS,
		stage.Rows,
		stage.Status,
		stage.Error,
	)
	if err != nil {
		return fmt.Errorf("ошибка при записи стадии %s: %w", stage.Stage, err)
	}

	return nil
}

// GetRun получает запуск по идентификатору; возвращает nil, если запуск не найден
func (r *SQLETLLogRepository) GetRun(ctx context.Context, id string) (*ETLRunLog, error) {
	row := r.db.QueryRowContext(ctx, selectRunColumns+` WHERE id = ?`, id)

	log, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении запуска %s: %w", id, err)
	}

	return log, nil
}

// GetRecentRuns получает последние запуски, новые первыми
func (r *SQLETLLogRepository) GetRecentRuns(ctx context.Context, limit int) ([]ETLRunLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, selectRunColumns+` ORDER BY start_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка запусков ETL: %w", err)
	}
	defer rows.Close()

	var logs []ETLRunLog
	for rows.Next() {
		log, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании записи о запуске ETL: %w", err)
		}
		logs = append(logs, *log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по записям о запусках ETL: %w", err)
	}

	return logs, nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
func (r *SQLETLLogRepository) GetLastSuccessfulRun(ctx context.Context) (*ETLRunLog, error) {
	row := r.db.QueryRowContext(ctx, selectRunColumns+` WHERE status = ? ORDER BY end_time DESC LIMIT 1`, RunStatusSuccess)

	log, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Нет успешных запусков
		}
		return nil, fmt.Errorf("ошибка при получении информации о последнем успешном запуске ETL: %w", err)
	}

	return log, nil
}

// GetStages получает стадии запуска в порядке выполнения
func (r *SQLETLLogRepository) GetStages(ctx context.Context, runID string) ([]ETLStageLog, error) {
	query := `
	SELECT run_id, stage, started_at, duration_ms, row_count, status, COALESCE(error_message, '')
	FROM etl_stage_log
	WHERE run_id = ?
	ORDER BY started_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении стадий запуска %s: %w", runID, err)
	}
	defer rows.Close()

	var stages []ETLStageLog
	for rows.Next() {
		var stage ETLStageLog
		var startedAt dbTime
		if err := rows.Scan(&stage.RunID, &stage.Stage, &startedAt, &stage.DurationMS, &stage.Rows, &stage.Status, &stage.Error); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании стадии: %w", err)
		}
		stage.StartedAt = startedAt.Time
		stages = append(stages, stage)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по стадиям: %w", err)
	}

	return stages, nil
}

func (r *SQLETLLogRepository) startTime(ctx context.Context, id string) (time.Time, error) {
	var startTime dbTime
	err := r.db.QueryRowContext(ctx, "SELECT start_time FROM etl_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}
	return startTime.Time, nil
}

const selectRunColumns = `
	SELECT
		id, start_time, end_time, status,
		COALESCE(failed_stage, ''), COALESCE(error_message, ''), COALESCE(error_code, 0), COALESCE(error_state, ''),
		raw_rows, cleansed_rows, dimensional_rows, violations_found,
		COALESCE(execution_time_seconds, 0)
	FROM etl_run_log`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*ETLRunLog, error) {
	var log ETLRunLog
	var startTime, endTime dbTime
	err := row.Scan(
		&log.ID, &startTime, &endTime, &log.Status,
		&log.FailedStage, &log.ErrorMessage, &log.ErrorCode, &log.ErrorState,
		&log.RawRows, &log.CleansedRows, &log.DimensionalRows, &log.ViolationsFound,
		&log.ExecutionTimeSeconds,
	)
	if err != nil {
		return nil, err
	}
	log.StartTime = startTime.Time
	log.EndTime = endTime.Time
	return &log, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// dbTime принимает время как в виде time.Time (MySQL с parseTime), так и в виде текста (SQLite)
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("неподдерживаемый тип времени %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("не удалось разобрать время %q", s)
}
