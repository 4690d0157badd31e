// Package dataset описывает публикуемые отношения хранилища: имя, столбцы
// и доступ к строкам. Загрузчики и экспорт работают только с Relation.
package dataset

import "fmt"

// ColumnType - логический тип столбца, переводимый загрузчиком в тип диалекта
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Decimal
	Date
	Timestamp
)

func (t ColumnType) String() string {
	switch t {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column описывает столбец отношения
type Column struct {
	Name string
	Type ColumnType
}

// Relation - материализуемое отношение.
// Row(i) возвращает значения строки в порядке Columns: nil, string, int64
// или decimal.Decimal; даты уже отформатированы в строки.
type Relation struct {
	Name    string
	Columns []Column
	Count   int
	Row     func(i int) []any
}

// ColumnNames возвращает имена столбцов
func (r Relation) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Rows подсчитывает общее количество строк набора отношений
func Rows(relations []Relation) int {
	total := 0
	for _, r := range relations {
		total += r.Count
	}
	return total
}

func rel[T any](name string, columns []Column, rows []T, row func(T) []any) Relation {
	return Relation{
		Name:    name,
		Columns: columns,
		Count:   len(rows),
		Row:     func(i int) []any { return row(rows[i]) },
	}
}

func text(name string) Column      { return Column{Name: name, Type: Text} }
func integer(name string) Column   { return Column{Name: name, Type: Integer} }
func money(name string) Column     { return Column{Name: name, Type: Decimal} }
func date(name string) Column      { return Column{Name: name, Type: Date} }
func timestamp(name string) Column { return Column{Name: name, Type: Timestamp} }
