package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	flag "github.com/spf13/pflag"

	"github.com/LilVoxy/sales_dwh/ETL/app"
	"github.com/LilVoxy/sales_dwh/ETL/config"
	"github.com/LilVoxy/sales_dwh/ETL/load"
	"github.com/LilVoxy/sales_dwh/ETL/metrics"
	"github.com/LilVoxy/sales_dwh/ETL/pipeline"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "Путь к YAML-файлу конфигурации")
	modeFlag := flag.String("mode", "once", "Режим работы: once или scheduled")
	verboseFlag := flag.Bool("verbose", false, "Подробное (debug) логирование")
	driverFlag := flag.String("driver", "", "Драйвер хранилища: mysql или sqlite (или DWH_DB_DRIVER)")
	sourceDirFlag := flag.String("source-dir", "", "Каталог исходных файлов (или DWH_SOURCE_DIR)")
	intervalFlag := flag.Duration("interval", 0, "Интервал запуска в режиме scheduled (или DWH_RUN_INTERVAL)")
	loadRawFlag := flag.Bool("load-raw", false, "Публиковать сырые отношения bronze_*")
	exportFlag := flag.Bool("export", false, "Выгружать снимок после запуска")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	// Флаги командной строки имеют приоритет над файлом и окружением
	if *driverFlag != "" {
		cfg.Database.Driver = *driverFlag
	}
	if *sourceDirFlag != "" {
		cfg.SourceDir = *sourceDirFlag
	}
	if *intervalFlag > 0 {
		cfg.RunInterval = *intervalFlag
	}
	if flag.CommandLine.Changed("load-raw") {
		cfg.LoadRaw = *loadRawFlag
	}
	if flag.CommandLine.Changed("export") {
		cfg.Export.Enabled = *exportFlag
	}

	level := cfg.LogLevel
	if *verboseFlag || cfg.EnableDetailedLogging {
		level = "debug"
	}
	logger := utils.NewETLLoggerWithWriter(os.Stderr, level)

	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
	logger.Info("Запуск ETL Runner в режиме %s (версия %s)", *modeFlag, version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	switch *modeFlag {
	case "once":
		return runOnce(ctx, a.Runner)
	case "scheduled":
		return runScheduled(ctx, a.Runner, cfg.RunInterval, logger)
	default:
		return fmt.Errorf("неизвестный режим работы %q, доступные режимы: once, scheduled", *modeFlag)
	}
}

// runOnce выполняет один полный запуск
func runOnce(ctx context.Context, runner *pipeline.Runner) error {
	if _, err := runner.Run(ctx); err != nil {
		return fmt.Errorf("ошибка при выполнении ETL: %w", err)
	}
	return nil
}

// runScheduled выполняет запуски с заданным интервалом до отмены ctx
func runScheduled(ctx context.Context, runner *pipeline.Runner, interval time.Duration, logger *utils.ETLLogger) error {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	logger.Info("Запуск планировщика ETL с интервалом %v", interval)

	_, err := scheduler.Every(interval).Do(func() {
		logger.Info("Запланированный запуск ETL процесса")
		if _, err := runner.Run(ctx); err != nil {
			if errors.Is(err, load.ErrRunInProgress) {
				logger.Warn("Запуск пропущен: %v", err)
				return
			}
			logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке планировщика: %w", err)
	}

	scheduler.StartAsync()

	<-ctx.Done()

	scheduler.Stop()
	logger.Info("Планировщик ETL остановлен")
	return nil
}
