// Package pipeline выполняет полный запуск хранилища: стадии строго по порядку,
// структурированный итог каждой стадии, остановка на первой структурной ошибке.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/LilVoxy/sales_dwh/ETL/cleanse"
	"github.com/LilVoxy/sales_dwh/ETL/dataset"
	"github.com/LilVoxy/sales_dwh/ETL/load"
	"github.com/LilVoxy/sales_dwh/ETL/metrics"
	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/transform"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
	"github.com/LilVoxy/sales_dwh/ETL/validate"
)

// Extractor поставляет сырые данные запуска
type Extractor interface {
	Extract(ctx context.Context) (*models.RawData, error)
}

// RunLocker выдает блокировку единственного запуска
type RunLocker interface {
	AcquireRunLock(ctx context.Context, runID string, staleAfter time.Duration) (load.RunLock, error)
}

// Exporter публикует снимок отношений запуска
type Exporter interface {
	Publish(ctx context.Context, runID string, relations ...dataset.Relation) (string, error)
}

// Options управляет необязательными стадиями
type Options struct {
	LoadRaw             bool
	Export              bool
	LockStaleAfter      time.Duration
	BirthdateLowerBound time.Time
}

// Dependencies - внешние зависимости конвейера.
// Exporter и Sink необязательны.
type Dependencies struct {
	Extractor Extractor
	Loader    load.Loader
	Locker    RunLocker
	Logs      models.ETLLogRepository
	Exporter  Exporter
	Sink      ProgressSink
	Clock     clockwork.Clock
	Logger    *utils.ETLLogger
}

// RunResult - итог полного запуска
type RunResult struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	Stages       []StageResult
	Counters     models.RunCounters
	Report       *models.IntegrityReport
	SnapshotPath string
}

// Runner выполняет полный запуск
type Runner struct {
	deps        Dependencies
	opts        Options
	cleanser    *cleanse.Cleanser
	transformer *transform.Transformer
	validator   *validate.Validator
	loads       *load.LoadManager
	newID       func() string
	running     atomic.Bool
}

// NewRunner создает новый экземпляр Runner
func NewRunner(deps Dependencies, opts Options) *Runner {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = utils.NewNopLogger()
	}
	return &Runner{
		deps:        deps,
		opts:        opts,
		cleanser:    cleanse.NewCleanser(deps.Clock, deps.Logger),
		transformer: transform.NewTransformer(deps.Logger),
		validator:   validate.NewValidator(deps.Clock, opts.BirthdateLowerBound, deps.Logger),
		loads:       load.NewLoadManager(deps.Loader, deps.Logger),
		newID:       uuid.NewString,
	}
}

// Running сообщает, выполняется ли сейчас запуск в этом процессе
func (r *Runner) Running() bool {
	return r.running.Load()
}

// runState - промежуточные результаты, передаваемые между стадиями
type runState struct {
	raw       *models.RawData
	cleansed  *models.CleansedData
	model     *models.DimensionalModel
	published []dataset.Relation
}

// Run выполняет полный запуск. При структурной ошибке возвращает *StageError,
// результат при этом содержит выполненные стадии.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, load.ErrRunInProgress
	}
	defer r.running.Store(false)

	result := &RunResult{
		RunID:     r.newID(),
		StartedAt: r.deps.Clock.Now().UTC(),
		Status:    models.RunStatusInProgress,
	}
	logger := r.deps.Logger.With("run_id", result.RunID)

	// 1. Блокировка единственного запуска
	lock, err := r.deps.Locker.AcquireRunLock(ctx, result.RunID, r.opts.LockStaleAfter)
	if err != nil {
		return nil, fmt.Errorf("ошибка при захвате блокировки запуска: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Ошибка при снятии блокировки запуска: %v", err)
		}
	}()

	// 2. Запись в журнале запусков
	if err := r.deps.Logs.CreateLogEntry(ctx, result.RunID, result.StartedAt); err != nil {
		return nil, fmt.Errorf("ошибка при создании записи о запуске: %w", err)
	}

	logger.Info("=== Начало запуска ETL ===")
	r.emit(ProgressEvent{Type: EventRunStarted, RunID: result.RunID})

	state := &runState{}
	stages := r.plan(result, state)

	// 3. Стадии строго по порядку
	for _, s := range stages {
		if err := r.runStage(ctx, logger, result, s.name, s.fn); err != nil {
			return result, r.fail(ctx, logger, result, err)
		}
	}

	// 4. Итог
	result.FinishedAt = r.deps.Clock.Now().UTC()
	result.Status = models.RunStatusSuccess
	result.Counters = models.RunCounters{
		RawRows:         state.raw.Rows(),
		CleansedRows:    state.cleansed.Rows(),
		DimensionalRows: state.model.Rows(),
		ViolationsFound: len(result.Report.Violations),
	}

	if err := r.deps.Logs.UpdateLogEntrySuccess(context.WithoutCancel(ctx), result.RunID, result.FinishedAt, result.Counters); err != nil {
		logger.Error("Ошибка при обновлении журнала запусков: %v", err)
	}

	metrics.ObserveRun(result.Status, result.FinishedAt)
	metrics.ObserveViolations(result.Report.CountByCheck())
	r.emit(ProgressEvent{Type: EventRunCompleted, RunID: result.RunID, Rows: result.Counters.DimensionalRows})

	logger.Info("=== Запуск ETL успешно завершен за %v ===", result.FinishedAt.Sub(result.StartedAt))

	return result, nil
}

type plannedStage struct {
	name string
	fn   func(ctx context.Context) (int, error)
}

func (r *Runner) plan(result *RunResult, st *runState) []plannedStage {
	stages := []plannedStage{
		{StageExtract, func(ctx context.Context) (int, error) {
			raw, err := r.deps.Extractor.Extract(ctx)
			if err != nil {
				return 0, err
			}
			st.raw = raw
			return raw.Rows(), nil
		}},
	}

	if r.opts.LoadRaw {
		stages = append(stages, plannedStage{StageLoadRaw, func(ctx context.Context) (int, error) {
			st.published = append(st.published, dataset.RawRelations(st.raw)...)
			return r.loads.LoadRaw(ctx, st.raw)
		}})
	}

	stages = append(stages,
		plannedStage{StageCleanse, func(ctx context.Context) (int, error) {
			cleansed, err := r.cleanser.Cleanse(ctx, st.raw)
			if err != nil {
				return 0, err
			}
			st.cleansed = cleansed
			return cleansed.Rows(), nil
		}},
		plannedStage{StageLoadCleansed, func(ctx context.Context) (int, error) {
			st.published = append(st.published, dataset.CleansedRelations(st.cleansed)...)
			return r.loads.LoadCleansed(ctx, st.cleansed)
		}},
		plannedStage{StageBuildDimensions, func(ctx context.Context) (int, error) {
			model, err := r.transformer.BuildDimensions(ctx, st.cleansed)
			if err != nil {
				return 0, err
			}
			st.model = model
			return len(model.Customers) + len(model.Products), nil
		}},
		plannedStage{StageBuildFacts, func(ctx context.Context) (int, error) {
			if err := r.transformer.BuildFacts(ctx, st.cleansed, st.model); err != nil {
				return 0, err
			}
			return len(st.model.Sales), nil
		}},
		plannedStage{StageLoadDimensional, func(ctx context.Context) (int, error) {
			st.published = append(st.published, dataset.DimensionalRelations(st.model)...)
			return r.loads.LoadDimensional(ctx, st.model)
		}},
		plannedStage{StageValidate, func(ctx context.Context) (int, error) {
			report, err := r.validator.Validate(ctx, st.cleansed, st.model)
			if err != nil {
				return 0, err
			}
			result.Report = report
			return len(report.Violations), nil
		}},
		plannedStage{StageLoadReport, func(ctx context.Context) (int, error) {
			st.published = append(st.published, dataset.ViolationsRelation(result.RunID, result.Report))
			return r.loads.LoadReport(ctx, result.RunID, result.Report)
		}},
	)

	if r.opts.Export && r.deps.Exporter != nil {
		stages = append(stages, plannedStage{StageExport, func(ctx context.Context) (int, error) {
			path, err := r.deps.Exporter.Publish(ctx, result.RunID, st.published...)
			if err != nil {
				return 0, err
			}
			result.SnapshotPath = path
			return dataset.Rows(st.published), nil
		}})
	}

	return stages
}

// runStage выполняет одну стадию: журнал, метрики, событие хода выполнения
func (r *Runner) runStage(ctx context.Context, logger *utils.ETLLogger, result *RunResult, stage string, fn func(context.Context) (int, error)) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}

	startedAt := r.deps.Clock.Now().UTC()
	wallStart := time.Now()

	logger.LogStageStart(stage)
	r.emit(ProgressEvent{Type: EventStageStarted, RunID: result.RunID, Stage: stage})

	rows, err := fn(ctx)
	duration := time.Since(wallStart)

	sr := StageResult{Stage: stage, StartedAt: startedAt, Duration: duration, Rows: rows, Err: err}
	result.Stages = append(result.Stages, sr)
	metrics.ObserveStage(stage, duration, rows, err)

	stageLog := models.ETLStageLog{
		RunID:      result.RunID,
		Stage:      stage,
		StartedAt:  startedAt,
		DurationMS: duration.Milliseconds(),
		Rows:       rows,
		Status:     models.RunStatusSuccess,
	}
	if err != nil {
		stageLog.Status = models.RunStatusFailed
		stageLog.Error = err.Error()
	}
	if logErr := r.deps.Logs.AppendStage(context.WithoutCancel(ctx), stageLog); logErr != nil {
		logger.Warn("Не удалось записать стадию %s в журнал: %v", stage, logErr)
	}

	if err != nil {
		logger.LogStageFailed(stage, err, duration)
		r.emit(ProgressEvent{Type: EventStageFailed, RunID: result.RunID, Stage: stage, DurationMS: duration.Milliseconds(), Error: err.Error()})

		code, state := load.ClassifyError(err)
		return &StageError{Stage: stage, Code: code, State: state, Err: err}
	}

	logger.LogStageComplete(stage, rows, duration)
	r.emit(ProgressEvent{Type: EventStageCompleted, RunID: result.RunID, Stage: stage, Rows: rows, DurationMS: duration.Milliseconds()})

	return nil
}

// fail фиксирует неудачный запуск в журнале и метриках
func (r *Runner) fail(ctx context.Context, logger *utils.ETLLogger, result *RunResult, err error) error {
	result.FinishedAt = r.deps.Clock.Now().UTC()
	result.Status = models.RunStatusFailed

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		stageErr = &StageError{Err: err}
	}

	failure := models.RunFailure{
		Stage:   stageErr.Stage,
		Message: stageErr.Err.Error(),
		Code:    stageErr.Code,
		State:   stageErr.State,
	}
	if logErr := r.deps.Logs.UpdateLogEntryFailure(context.WithoutCancel(ctx), result.RunID, result.FinishedAt, failure); logErr != nil {
		logger.Error("Ошибка при обновлении журнала запусков: %v", logErr)
	}

	metrics.ObserveRun(result.Status, result.FinishedAt)
	r.emit(ProgressEvent{Type: EventRunFailed, RunID: result.RunID, Stage: stageErr.Stage, Error: stageErr.Err.Error()})

	logger.Error("=== Запуск ETL завершился с ошибкой на стадии %s: %v ===", stageErr.Stage, stageErr.Err)

	return stageErr
}

func (r *Runner) emit(event ProgressEvent) {
	if r.deps.Sink == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.deps.Clock.Now().UTC()
	}
	r.deps.Sink.Publish(event)
}
