package extractors

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ctxCheckInterval - через сколько строк проверяется отмена контекста
const ctxCheckInterval = 1024

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseError описывает структурную ошибку исходного файла:
// значение, которое невозможно привести к типу столбца
type ParseError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: столбец %s: значение %q: %v", e.File, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// record - одна строка файла с типизированным доступом к полям.
// Первая ошибка преобразования запоминается, последующие чтения возвращают NULL.
type record struct {
	file    string
	line    int
	columns []string
	fields  []string
	err     error
}

func (r *record) fail(col int, value string, err error) {
	if r.err == nil {
		r.err = &ParseError{File: r.file, Line: r.line, Column: r.columns[col], Value: value, Err: err}
	}
}

// String возвращает текстовое поле; пустое поле - NULL
func (r *record) String(col int) sql.NullString {
	v := r.fields[col]
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// Int возвращает целочисленное поле
func (r *record) Int(col int) sql.NullInt64 {
	v := strings.TrimSpace(r.fields[col])
	if v == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.fail(col, v, err)
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

// Decimal возвращает денежное поле
func (r *record) Decimal(col int) decimal.NullDecimal {
	v := strings.TrimSpace(r.fields[col])
	if v == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.fail(col, v, err)
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Time возвращает поле даты или даты-времени в UTC
func (r *record) Time(col int) sql.NullTime {
	v := strings.TrimSpace(r.fields[col])
	if v == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}
		}
	}
	r.fail(col, v, errors.New("неподдерживаемый формат даты"))
	return sql.NullTime{}
}

// readCSV читает файл с заголовком и вызывает fn для каждой строки данных.
// Количество полей каждой строки должно совпадать с количеством столбцов.
func readCSV(ctx context.Context, path string, columns []string, fn func(*record)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(columns)
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("файл %s пуст: отсутствует заголовок", path)
		}
		return 0, fmt.Errorf("ошибка чтения заголовка %s: %w", path, err)
	}

	rows := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("ошибка разбора файла %s: %w", path, err)
		}

		line, _ := reader.FieldPos(0)
		rec := &record{file: path, line: line, columns: columns, fields: fields}
		fn(rec)
		if rec.err != nil {
			return rows, rec.err
		}

		rows++
		if rows%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return rows, fmt.Errorf("чтение %s прервано: %w", path, err)
			}
		}
	}

	return rows, nil
}
