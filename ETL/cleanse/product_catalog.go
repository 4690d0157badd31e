package cleanse

import (
	"sort"
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// ProductCatalogCleanser отвечает за очистку каталога продуктов CRM
type ProductCatalogCleanser struct {
	logger *utils.ETLLogger
}

// NewProductCatalogCleanser создает новый экземпляр ProductCatalogCleanser
func NewProductCatalogCleanser(logger *utils.ETLLogger) *ProductCatalogCleanser {
	return &ProductCatalogCleanser{
		logger: logger,
	}
}

// Cleanse разбирает составной ключ, стандартизирует поля и пересчитывает
// дату окончания действия каждой версии продукта
func (c *ProductCatalogCleanser) Cleanse(raw []models.RawProductCatalogEntry, processedAt time.Time) []models.ProductCatalogEntry {
	c.logger.Debug("Очистка каталога продуктов: %d записей", len(raw))

	cleansed := make([]models.ProductCatalogEntry, len(raw))
	for i, rec := range raw {
		categoryID, productKey := standardize.SplitProductKey(rec.Key)
		cleansed[i] = models.ProductCatalogEntry{
			ID:            rec.ID,
			CategoryID:    categoryID,
			Key:           productKey,
			Name:          rec.Name,
			Cost:          standardize.CostOrZero(rec.Cost),
			Line:          standardize.ProductLine(rec.Line),
			StartDate:     standardize.DateOnly(rec.StartDate),
			DWHCreateDate: processedAt,
		}
	}

	assignEndDates(cleansed)

	return cleansed
}

// assignEndDates выставляет дату окончания как дату начала следующей версии
// минус один день. Версии группируются по производному ключу продукта и
// упорядочиваются по дате начала (NULL первыми, затем по порядку во входных данных).
func assignEndDates(entries []models.ProductCatalogEntry) {
	type partitionKey struct {
		key   string
		valid bool
	}

	partitions := make(map[partitionKey][]int)
	var order []partitionKey
	for i, e := range entries {
		pk := partitionKey{key: e.Key.String, valid: e.Key.Valid}
		if _, ok := partitions[pk]; !ok {
			order = append(order, pk)
		}
		partitions[pk] = append(partitions[pk], i)
	}

	for _, pk := range order {
		idx := partitions[pk]
		sort.SliceStable(idx, func(a, b int) bool {
			return startBefore(entries[idx[a]], entries[idx[b]])
		})

		for pos, i := range idx {
			if pos == len(idx)-1 {
				entries[i].EndDate.Valid = false
				continue
			}
			entries[i].EndDate = standardize.DayBefore(entries[idx[pos+1]].StartDate)
		}
	}
}

func startBefore(a, b models.ProductCatalogEntry) bool {
	if !a.StartDate.Valid || !b.StartDate.Valid {
		return !a.StartDate.Valid && b.StartDate.Valid
	}
	return a.StartDate.Time.Before(b.StartDate.Time)
}
