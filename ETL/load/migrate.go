package load

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"

	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate применяет миграции служебных таблиц (журнал запусков, стадии,
// блокировка запуска, нарушения целостности) для указанного диалекта
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, logger *utils.ETLLogger) error {
	var gooseDialect goose.Dialect
	switch dialect {
	case DialectMySQL:
		gooseDialect = goose.DialectMySQL
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	fsys, err := fs.Sub(migrationsFS, path.Join("migrations", string(dialect)))
	if err != nil {
		return fmt.Errorf("ошибка при открытии каталога миграций: %w", err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("ошибка при создании провайдера миграций: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	for _, r := range results {
		logger.Info("Применена миграция %d (%s) за %v", r.Source.Version, r.Source.Path, r.Duration)
	}
	if len(results) == 0 {
		logger.Debug("Схема служебных таблиц актуальна")
	}

	return nil
}
