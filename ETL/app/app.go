// Package app собирает зависимости запуска ETL из конфигурации.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/LilVoxy/sales_dwh/ETL/config"
	"github.com/LilVoxy/sales_dwh/ETL/export"
	"github.com/LilVoxy/sales_dwh/ETL/extractors"
	"github.com/LilVoxy/sales_dwh/ETL/load"
	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/pipeline"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// App содержит подключение к хранилищу и собранный конвейер
type App struct {
	DB         *sql.DB
	Dialect    load.Dialect
	Runner     *pipeline.Runner
	Logs       models.ETLLogRepository
	Violations models.ViolationRepository
	Exporter   *export.Exporter

	logger *utils.ETLLogger
}

// New подключается к хранилищу, применяет миграции и собирает конвейер.
// sink может быть nil.
func New(ctx context.Context, cfg config.ETLConfig, logger *utils.ETLLogger, sink pipeline.ProgressSink) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	bound, err := cfg.BirthdateBound()
	if err != nil {
		return nil, err
	}

	db, dialect, err := config.ConnectDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("Подключение к хранилищу %s установлено", dialect)

	if err := load.Migrate(ctx, db, dialect, logger); err != nil {
		db.Close()
		return nil, err
	}

	loader := load.NewSQLLoader(db, dialect, cfg.BatchSize, logger)
	logs := models.NewSQLETLLogRepository(db)

	a := &App{
		DB:         db,
		Dialect:    dialect,
		Logs:       logs,
		Violations: models.NewSQLViolationRepository(db),
		logger:     logger,
	}

	deps := pipeline.Dependencies{
		Extractor: extractors.NewExtractor(cfg.SourcePaths(), logger),
		Loader:    loader,
		Locker:    loader,
		Logs:      logs,
		Sink:      sink,
		Clock:     clockwork.NewRealClock(),
		Logger:    logger,
	}
	if cfg.Export.Enabled {
		a.Exporter = export.NewExporter(cfg.Export.Dir, cfg.Export.Keep, logger)
		deps.Exporter = a.Exporter
	}

	a.Runner = pipeline.NewRunner(deps, pipeline.Options{
		LoadRaw:             cfg.LoadRaw,
		Export:              cfg.Export.Enabled,
		LockStaleAfter:      cfg.LockStaleAfter,
		BirthdateLowerBound: bound,
	})

	return a, nil
}

// Close закрывает соединение с хранилищем
func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		a.logger.Error("Ошибка при закрытии соединения с базой данных: %v", err)
		return
	}
	a.logger.Info("Соединение с базой данных закрыто")
}
