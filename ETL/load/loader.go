// Package load материализует отношения хранилища в MySQL или SQLite
// по схеме "построить рядом, затем подменить".
package load

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/dataset"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

const (
	defaultBatchSize = 500

	stagingSuffix = "__staging"
	oldSuffix     = "__old"
)

// Loader интерфейс для публикации отношений в хранилище
type Loader interface {
	// Publish перестраивает каждое отношение и атомарно подменяет прежнюю версию
	Publish(ctx context.Context, relations ...dataset.Relation) error
}

// SQLLoader реализация Loader поверх database/sql
type SQLLoader struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
	logger    *utils.ETLLogger
}

// NewSQLLoader создает новый экземпляр SQLLoader.
// batchSize <= 0 заменяется значением по умолчанию.
func NewSQLLoader(db *sql.DB, dialect Dialect, batchSize int, logger *utils.ETLLogger) *SQLLoader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &SQLLoader{
		db:        db,
		dialect:   dialect,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Dialect возвращает диалект хранилища
func (l *SQLLoader) Dialect() Dialect {
	return l.dialect
}

// Publish перестраивает отношения по одному: промежуточная таблица,
// пакетная вставка, атомарная подмена
func (l *SQLLoader) Publish(ctx context.Context, relations ...dataset.Relation) error {
	for _, rel := range relations {
		startTime := time.Now()
		staging := rel.Name + stagingSuffix

		// 1. Промежуточная таблица
		if _, err := l.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", l.dialect.quote(staging))); err != nil {
			return fmt.Errorf("ошибка при удалении %s: %w", staging, err)
		}
		if _, err := l.db.ExecContext(ctx, l.dialect.createTable(staging, rel.Columns)); err != nil {
			return fmt.Errorf("ошибка при создании %s: %w", staging, err)
		}

		// 2. Данные
		if err := l.writeRows(ctx, staging, rel); err != nil {
			return fmt.Errorf("ошибка при загрузке %s: %w", rel.Name, err)
		}

		// 3. Подмена
		if err := l.dialect.swap(ctx, l.db, rel.Name, staging); err != nil {
			return err
		}

		l.logger.Debug("Отношение %s опубликовано: %d строк за %v", rel.Name, rel.Count, time.Since(startTime))
	}

	return nil
}

// writeRows вставляет строки отношения пакетами по batchSize в одной транзакции
func (l *SQLLoader) writeRows(ctx context.Context, table string, rel dataset.Relation) error {
	if rel.Count == 0 {
		return nil
	}

	expectedColCount := len(rel.Columns)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback()

	var fullStmt *sql.Stmt
	defer func() {
		if fullStmt != nil {
			fullStmt.Close()
		}
	}()

	for start := 0; start < rel.Count; start += l.batchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("загрузка прервана: %w", err)
		}

		end := min(start+l.batchSize, rel.Count)
		args := make([]any, 0, (end-start)*expectedColCount)

		for i := start; i < end; i++ {
			row := rel.Row(i)
			if len(row) != expectedColCount {
				return fmt.Errorf("строка %d содержит %d столбцов, ожидается %d", i, len(row), expectedColCount)
			}
			args = append(args, row...)
		}

		if end-start == l.batchSize {
			if fullStmt == nil {
				fullStmt, err = tx.PrepareContext(ctx, l.dialect.insertStatement(table, rel.Columns, l.batchSize))
				if err != nil {
					return fmt.Errorf("ошибка при подготовке вставки: %w", err)
				}
			}
			_, err = fullStmt.ExecContext(ctx, args...)
		} else {
			_, err = tx.ExecContext(ctx, l.dialect.insertStatement(table, rel.Columns, end-start), args...)
		}
		if err != nil {
			return fmt.Errorf("ошибка при вставке строк %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}
