// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	flag "github.com/spf13/pflag"

	"github.com/LilVoxy/sales_dwh/ETL/app"
	"github.com/LilVoxy/sales_dwh/ETL/config"
	"github.com/LilVoxy/sales_dwh/ETL/metrics"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
	"github.com/LilVoxy/sales_dwh/routes"
	"github.com/LilVoxy/sales_dwh/websocket"
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
	addrFlag := flag.String("addr", "", "Адрес сервера отчетов (или DWH_HTTP_ADDR)")
	verboseFlag := flag.Bool("verbose", false, "Подробное (debug) логирование")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *addrFlag != "" {
		cfg.HTTPAddr = *addrFlag
	}

	level := cfg.LogLevel
	if *verboseFlag || cfg.EnableDetailedLogging {
		level = "debug"
	}
	logger := utils.NewETLLoggerWithWriter(os.Stderr, level)
	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хаб событий хода выполнения
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	a, err := app.New(ctx, cfg, logger, hub)
	if err != nil {
		return err
	}
	defer a.Close()

	trigger := routes.NewRunTrigger(ctx, a.Runner, logger)

	router := mux.NewRouter()
	routes.SetupRoutes(router, routes.Deps{
		Logs:       a.Logs,
		Violations: a.Violations,
		Trigger:    trigger,
		Progress:   hub.HandleConnections,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Сервер отчетов запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Получен сигнал завершения, останавливаем сервер")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера: %v", err)
	}

	// Фоновый запуск отменяется вместе с ctx
	trigger.Wait()
	logger.Info("Сервер остановлен")

	return nil
}
