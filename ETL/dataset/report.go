package dataset

import "github.com/LilVoxy/sales_dwh/ETL/models"

// ViolationsRelation описывает нарушения целостности запуска runID
func ViolationsRelation(runID string, report *models.IntegrityReport) Relation {
	checkedAt := formatTimestamp(report.CheckedAt)
	return rel(models.IntegrityViolations, []Column{
		text("run_id"), timestamp("checked_at"), text("check_name"), text("layer"),
		text("relation"), text("natural_key"), text("detail"),
	}, report.Violations, func(v models.Violation) []any {
		return []any{runID, checkedAt, v.Check, v.Layer, v.Relation, v.NaturalKey, v.Detail}
	})
}
