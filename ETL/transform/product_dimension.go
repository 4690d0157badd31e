package transform

import (
	"database/sql"
	"sort"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// ProductDimensionBuilder отвечает за построение измерения продуктов
type ProductDimensionBuilder struct {
	logger *utils.ETLLogger
}

// NewProductDimensionBuilder создает новый экземпляр ProductDimensionBuilder
func NewProductDimensionBuilder(logger *utils.ETLLogger) *ProductDimensionBuilder {
	return &ProductDimensionBuilder{
		logger: logger,
	}
}

// Build оставляет только актуальные версии продуктов (без даты окончания),
// обогащает их категорией и назначает плотные суррогатные ключи
// в порядке (дата начала, номер продукта, идентификатор продукта)
func (b *ProductDimensionBuilder) Build(products []models.ProductCatalogEntry, categories []models.CategoryEntry) []models.ProductDimension {
	b.logger.Debug("Построение измерения продуктов: %d версий", len(products))

	categoryByID := firstMatchIndex(categories, func(c models.CategoryEntry) sql.NullString { return c.ID }, "erp_px_cat_g1v2", b.logger)

	active := make([]models.ProductCatalogEntry, 0, len(products))
	for _, p := range products {
		if !p.EndDate.Valid {
			active = append(active, p)
		}
	}

	sort.SliceStable(active, func(i, j int) bool { return productBefore(active[i], active[j]) })

	dimensions := make([]models.ProductDimension, 0, len(active))
	for i, p := range active {
		dim := models.ProductDimension{
			ProductKey:    int64(i + 1),
			ProductID:     p.ID,
			ProductNumber: p.Key,
			ProductName:   p.Name,
			CategoryID:    p.CategoryID,
			Cost:          p.Cost,
			ProductLine:   p.Line,
			StartDate:     p.StartDate,
		}
		if p.CategoryID.Valid {
			if cat, ok := categoryByID[p.CategoryID.String]; ok {
				dim.Category = cat.Category
				dim.Subcategory = cat.Subcategory
				dim.Maintenance = cat.Maintenance
			}
		}
		dimensions = append(dimensions, dim)
	}

	b.logger.Debug("Актуальных продуктов: %d из %d", len(dimensions), len(products))

	return dimensions
}

// productBefore сравнивает версии по (дата начала, номер, идентификатор), NULL первыми.
// Полностью равные записи сохраняют входной порядок благодаря устойчивой сортировке.
func productBefore(a, b models.ProductCatalogEntry) bool {
	if a.StartDate.Valid != b.StartDate.Valid {
		return !a.StartDate.Valid
	}
	if a.StartDate.Valid && !a.StartDate.Time.Equal(b.StartDate.Time) {
		return a.StartDate.Time.Before(b.StartDate.Time)
	}

	if a.Key.Valid != b.Key.Valid {
		return !a.Key.Valid
	}
	if a.Key.String != b.Key.String {
		return a.Key.String < b.Key.String
	}

	if a.ID.Valid != b.ID.Valid {
		return !a.ID.Valid
	}
	return a.ID.Int64 < b.ID.Int64
}
