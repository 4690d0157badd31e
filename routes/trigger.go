// routes/trigger.go
package routes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/LilVoxy/sales_dwh/ETL/load"
	"github.com/LilVoxy/sales_dwh/ETL/pipeline"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// Runner выполняет полный запуск
type Runner interface {
	Run(ctx context.Context) (*pipeline.RunResult, error)
}

// RunTrigger запускает конвейер в фоне, не более одного запуска одновременно
type RunTrigger struct {
	ctx    context.Context
	runner Runner
	logger *utils.ETLLogger
	active atomic.Bool
	wg     sync.WaitGroup
}

// NewRunTrigger создает триггер; ctx отменяет фоновые запуски при остановке сервера
func NewRunTrigger(ctx context.Context, runner Runner, logger *utils.ETLLogger) *RunTrigger {
	return &RunTrigger{ctx: ctx, runner: runner, logger: logger}
}

// Start начинает запуск в фоне или возвращает load.ErrRunInProgress
func (t *RunTrigger) Start() error {
	if !t.active.CompareAndSwap(false, true) {
		return load.ErrRunInProgress
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.active.Store(false)

		result, err := t.runner.Run(t.ctx)
		switch {
		case errors.Is(err, load.ErrRunInProgress):
			t.logger.Warn("Запуск по запросу пропущен: %v", err)
		case err != nil:
			t.logger.Error("Запуск по запросу завершился с ошибкой: %v", err)
		default:
			t.logger.Info("Запуск по запросу %s завершен", result.RunID)
		}
	}()

	return nil
}

// Active сообщает, выполняется ли запуск
func (t *RunTrigger) Active() bool {
	return t.active.Load()
}

// Wait ожидает завершения фонового запуска
func (t *RunTrigger) Wait() {
	t.wg.Wait()
}
