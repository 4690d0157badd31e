// Package export публикует снимок отношений запуска в виде сжатых CSV-файлов.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/shopspring/decimal"

	"github.com/LilVoxy/sales_dwh/ETL/dataset"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

const (
	snapshotsDir  = "snapshots"
	currentLink   = "current"
	tmpSuffix     = ".tmp"
	fileExtension = ".csv.sz"
)

// Exporter записывает снимки в каталог dir:
//
//	dir/snapshots/<runID>/<relation>.csv.sz
//	dir/current -> snapshots/<runID>
type Exporter struct {
	dir    string
	keep   int
	logger *utils.ETLLogger
}

// NewExporter создает новый экземпляр Exporter.
// keep - сколько последних снимков хранить (0 - хранить все).
func NewExporter(dir string, keep int, logger *utils.ETLLogger) *Exporter {
	return &Exporter{
		dir:    dir,
		keep:   keep,
		logger: logger,
	}
}

// Publish записывает отношения во временный каталог, переименовывает его
// в каталог снимка и атомарно переключает ссылку current на новый снимок.
// Возвращает путь к каталогу снимка.
func (e *Exporter) Publish(ctx context.Context, runID string, relations ...dataset.Relation) (string, error) {
	startTime := time.Now()

	if runID == "" || strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return "", fmt.Errorf("недопустимый идентификатор снимка %q", runID)
	}

	root := filepath.Join(e.dir, snapshotsDir)
	final := filepath.Join(root, runID)
	staging := final + tmpSuffix

	// 1. Временный каталог
	if err := os.RemoveAll(staging); err != nil {
		return "", fmt.Errorf("ошибка при очистке %s: %w", staging, err)
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("ошибка при создании %s: %w", staging, err)
	}

	// 2. Файлы отношений
	for _, rel := range relations {
		if err := ctx.Err(); err != nil {
			os.RemoveAll(staging)
			return "", fmt.Errorf("экспорт прерван: %w", err)
		}
		if err := writeRelation(filepath.Join(staging, rel.Name+fileExtension), rel); err != nil {
			os.RemoveAll(staging)
			return "", fmt.Errorf("ошибка при экспорте %s: %w", rel.Name, err)
		}
	}

	// 3. Публикация каталога снимка
	if err := os.RemoveAll(final); err != nil {
		return "", fmt.Errorf("ошибка при удалении прежнего снимка %s: %w", final, err)
	}
	if err := os.Rename(staging, final); err != nil {
		return "", fmt.Errorf("ошибка при публикации снимка: %w", err)
	}

	// 4. Переключение ссылки current
	if err := e.switchCurrent(runID); err != nil {
		return "", err
	}

	if err := e.prune(runID); err != nil {
		e.logger.Warn("Не удалось удалить старые снимки: %v", err)
	}

	e.logger.Info("Снимок %s опубликован: %d отношений. Длительность: %v", runID, len(relations), time.Since(startTime))

	return final, nil
}

// Current возвращает путь к текущему снимку
func (e *Exporter) Current() (string, error) {
	target, err := os.Readlink(filepath.Join(e.dir, currentLink))
	if err != nil {
		return "", fmt.Errorf("ошибка при чтении ссылки на текущий снимок: %w", err)
	}
	return filepath.Join(e.dir, target), nil
}

func (e *Exporter) switchCurrent(runID string) error {
	link := filepath.Join(e.dir, currentLink)
	tmpLink := link + tmpSuffix

	if err := os.Remove(tmpLink); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка при удалении %s: %w", tmpLink, err)
	}
	if err := os.Symlink(filepath.Join(snapshotsDir, runID), tmpLink); err != nil {
		return fmt.Errorf("ошибка при создании ссылки на снимок: %w", err)
	}
	if err := os.Rename(tmpLink, link); err != nil {
		return fmt.Errorf("ошибка при переключении ссылки на снимок: %w", err)
	}
	return nil
}

// prune удаляет самые старые снимки сверх e.keep, не трогая текущий
func (e *Exporter) prune(current string) error {
	if e.keep <= 0 {
		return nil
	}

	root := filepath.Join(e.dir, snapshotsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	type snapshot struct {
		name    string
		modTime time.Time
	}
	var snapshots []snapshot
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasSuffix(entry.Name(), tmpSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		snapshots = append(snapshots, snapshot{name: entry.Name(), modTime: info.ModTime()})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].modTime.Equal(snapshots[j].modTime) {
			return snapshots[i].modTime.After(snapshots[j].modTime)
		}
		return snapshots[i].name > snapshots[j].name
	})

	kept := 0
	for _, s := range snapshots {
		if s.name == current || kept < e.keep-1 {
			if s.name != current {
				kept++
			}
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, s.name)); err != nil {
			return err
		}
		e.logger.Debug("Удален старый снимок %s", s.name)
	}

	return nil
}

func writeRelation(path string, rel dataset.Relation) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	sw := snappy.NewBufferedWriter(f)
	w := csv.NewWriter(sw)

	if err := w.Write(rel.ColumnNames()); err != nil {
		return err
	}

	record := make([]string, len(rel.Columns))
	for i := 0; i < rel.Count; i++ {
		row := rel.Row(i)
		if len(row) != len(rel.Columns) {
			return fmt.Errorf("строка %d содержит %d столбцов, ожидается %d", i, len(row), len(rel.Columns))
		}
		for j, v := range row {
			record[j] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return sw.Close()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
