package cleanse

import (
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
)

// CleanseLocations удаляет разделители из идентификатора и нормализует страну
func CleanseLocations(raw []models.RawLocationRecord, processedAt time.Time) []models.LocationRecord {
	cleansed := make([]models.LocationRecord, len(raw))
	for i, rec := range raw {
		cleansed[i] = models.LocationRecord{
			CID:           standardize.StripSeparators(rec.CID),
			Country:       standardize.Country(rec.Country),
			DWHCreateDate: processedAt,
		}
	}
	return cleansed
}

// CleanseCategories переносит категории без изменений, добавляя время обработки
func CleanseCategories(raw []models.RawCategoryEntry, processedAt time.Time) []models.CategoryEntry {
	cleansed := make([]models.CategoryEntry, len(raw))
	for i, rec := range raw {
		cleansed[i] = models.CategoryEntry{
			ID:            rec.ID,
			Category:      rec.Category,
			Subcategory:   rec.Subcategory,
			Maintenance:   rec.Maintenance,
			DWHCreateDate: processedAt,
		}
	}
	return cleansed
}
