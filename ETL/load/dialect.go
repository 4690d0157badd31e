package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/LilVoxy/sales_dwh/ETL/dataset"
)

// Dialect - поддерживаемая СУБД хранилища
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// ErrUnknownDialect возвращается для неподдерживаемого диалекта
var ErrUnknownDialect = errors.New("неизвестный диалект хранилища")

// ParseDialect переводит имя драйвера в Dialect
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}

func (d Dialect) quote(ident string) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d Dialect) columnType(t dataset.ColumnType) string {
	if d == DialectMySQL {
		switch t {
		case dataset.Integer:
			return "BIGINT"
		case dataset.Decimal:
			return "DECIMAL(19,4)"
		case dataset.Date:
			return "DATE"
		case dataset.Timestamp:
			return "DATETIME"
		default:
			return "TEXT"
		}
	}

	// SQLite: денежные значения хранятся текстом, чтобы не терять точность
	if t == dataset.Integer {
		return "INTEGER"
	}
	return "TEXT"
}

func (d Dialect) createTable(name string, columns []dataset.Column) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s NULL", d.quote(c.Name), d.columnType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.quote(name), strings.Join(defs, ", "))
}

func (d Dialect) insertStatement(name string, columns []dataset.Column, rows int) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = d.quote(c.Name)
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = placeholders
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", d.quote(name), strings.Join(names, ", "), strings.Join(values, ", "))
}

// swap атомарно подменяет target содержимым staging.
// Читатели видят либо прежнюю, либо новую версию отношения.
func (d Dialect) swap(ctx context.Context, db *sql.DB, target, staging string) error {
	if d == DialectMySQL {
		old := target + oldSuffix
		statements := []string{
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s LIKE %s", d.quote(target), d.quote(staging)),
			fmt.Sprintf("DROP TABLE IF EXISTS %s", d.quote(old)),
			fmt.Sprintf("RENAME TABLE %s TO %s, %s TO %s", d.quote(target), d.quote(old), d.quote(staging), d.quote(target)),
			fmt.Sprintf("DROP TABLE %s", d.quote(old)),
		}
		for _, stmt := range statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ошибка при подмене %s: %w", target, err)
			}
		}
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции подмены %s: %w", target, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", d.quote(target))); err != nil {
		return fmt.Errorf("ошибка при удалении %s: %w", target, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.quote(staging), d.quote(target))); err != nil {
		return fmt.Errorf("ошибка при переименовании %s: %w", staging, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации подмены %s: %w", target, err)
	}
	return nil
}
