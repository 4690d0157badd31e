package models

import "time"

// Слои модели, в которых обнаруживаются нарушения
const (
	LayerCleansed    = "cleansed"
	LayerDimensional = "dimensional"
)

// Violation представляет одно нарушение целостности модели
type Violation struct {
	Check      string `json:"check"`
	Layer      string `json:"layer"`
	Relation   string `json:"relation"`
	NaturalKey string `json:"natural_key"`
	Detail     string `json:"detail"`
}

// IntegrityReport содержит результаты проверки целостности
type IntegrityReport struct {
	CheckedAt  time.Time   `json:"checked_at"`
	Violations []Violation `json:"violations"`

	// EnumValues - наблюдаемые значения перечислений для ручного просмотра
	EnumValues map[string][]string `json:"enum_values"`
}

// CountByCheck возвращает количество нарушений по каждой проверке
func (r *IntegrityReport) CountByCheck() map[string]int {
	counts := make(map[string]int)
	for _, v := range r.Violations {
		counts[v.Check]++
	}
	return counts
}

// OK возвращает true, если нарушений не обнаружено
func (r *IntegrityReport) OK() bool {
	return len(r.Violations) == 0
}
