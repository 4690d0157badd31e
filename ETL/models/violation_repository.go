package models

import (
	"context"
	"database/sql"
	"fmt"
)

// ViolationRepository читает опубликованные нарушения целостности
type ViolationRepository interface {
	// GetViolations возвращает нарушения последнего опубликованного отчета,
	// при непустом check - только по этой проверке
	GetViolations(ctx context.Context, check string, limit int) ([]Violation, error)
}

// SQLViolationRepository реализация ViolationRepository поверх database/sql
type SQLViolationRepository struct {
	db *sql.DB
}

// NewSQLViolationRepository создает новый экземпляр SQLViolationRepository
func NewSQLViolationRepository(db *sql.DB) *SQLViolationRepository {
	return &SQLViolationRepository{db: db}
}

// GetViolations возвращает нарушения из отношения integrity_violations
func (r *SQLViolationRepository) GetViolations(ctx context.Context, check string, limit int) ([]Violation, error) {
	if limit <= 0 {
		limit = 1000
	}

	query := `
	SELECT
		COALESCE(check_name, ''), COALESCE(layer, ''), COALESCE(relation, ''),
		COALESCE(natural_key, ''), COALESCE(detail, '')
	FROM ` + IntegrityViolations + `
	WHERE ? = '' OR check_name = ?
	LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, check, check, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении нарушений целостности: %w", err)
	}
	defer rows.Close()

	violations := []Violation{}
	for rows.Next() {
		var v Violation
		if err := rows.Scan(&v.Check, &v.Layer, &v.Relation, &v.NaturalKey, &v.Detail); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании нарушения: %w", err)
		}
		violations = append(violations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по нарушениям: %w", err)
	}

	return violations, nil
}
