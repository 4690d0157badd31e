package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ETLLogger представляет логгер для ETL-процесса
type ETLLogger struct {
	internal  *slog.Logger
	level     *slog.LevelVar
	isVerbose bool
}

// NewETLLogger создает новый экземпляр логгера для ETL, пишущий в stderr
func NewETLLogger(verbose bool) *ETLLogger {
	level := "info"
	if verbose {
		level = "debug"
	}
	return NewETLLoggerWithWriter(os.Stderr, level)
}

// NewETLLoggerWithWriter создает логгер с заданным уровнем и приемником вывода
func NewETLLoggerWithWriter(w io.Writer, level string) *ETLLogger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(level))

	handler := tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.DateTime,
		NoColor:    w != os.Stderr,
	})

	return &ETLLogger{
		internal:  slog.New(handler),
		level:     lvl,
		isVerbose: lvl.Level() <= slog.LevelDebug,
	}
}

// NewNopLogger создает логгер, отбрасывающий все сообщения (для тестов)
func NewNopLogger() *ETLLogger {
	return NewETLLoggerWithWriter(io.Discard, "error")
}

// ParseLevel переводит текстовый уровень в slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With создает дочерний логгер с дополнительными атрибутами
func (l *ETLLogger) With(args ...any) *ETLLogger {
	return &ETLLogger{
		internal:  l.internal.With(args...),
		level:     l.level,
		isVerbose: l.isVerbose,
	}
}

// Slog возвращает нижележащий *slog.Logger
func (l *ETLLogger) Slog() *slog.Logger {
	return l.internal
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	l.internal.Info(fmt.Sprintf(format, v...))
}

// Warn логирует предупреждение
func (l *ETLLogger) Warn(format string, v ...interface{}) {
	l.internal.Warn(fmt.Sprintf(format, v...))
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	l.internal.Error(fmt.Sprintf(format, v...))
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	l.internal.Debug(fmt.Sprintf(format, v...))
}

// LogStageStart логирует начало стадии конвейера
func (l *ETLLogger) LogStageStart(stage string) {
	l.internal.Info("Начало стадии", "stage", stage)
}

// LogStageComplete логирует завершение стадии конвейера
func (l *ETLLogger) LogStageComplete(stage string, rows int, duration time.Duration) {
	l.internal.Info("Стадия завершена", "stage", stage, "rows", rows, "duration", duration)
}

// LogStageFailed логирует аварийное завершение стадии
func (l *ETLLogger) LogStageFailed(stage string, err error, duration time.Duration) {
	l.internal.Error("Стадия завершилась с ошибкой", "stage", stage, "error", err, "duration", duration)
}
