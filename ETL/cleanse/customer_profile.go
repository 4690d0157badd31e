package cleanse

import (
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// CustomerProfileCleanser отвечает за очистку профилей клиентов CRM
type CustomerProfileCleanser struct {
	logger *utils.ETLLogger
}

// NewCustomerProfileCleanser создает новый экземпляр CustomerProfileCleanser
func NewCustomerProfileCleanser(logger *utils.ETLLogger) *CustomerProfileCleanser {
	return &CustomerProfileCleanser{
		logger: logger,
	}
}

// Cleanse удаляет записи без идентификатора, оставляет для каждого идентификатора
// самую свежую запись и стандартизирует поля. Порядок результата - порядок
// первого появления идентификатора во входных данных.
func (c *CustomerProfileCleanser) Cleanse(raw []models.RawCustomerProfile, processedAt time.Time) []models.CustomerProfile {
	c.logger.Debug("Очистка профилей клиентов: %d записей", len(raw))

	// 1. Выбор победителя для каждого идентификатора
	order := make([]int64, 0, len(raw))
	winners := make(map[int64]models.RawCustomerProfile, len(raw))
	droppedNullID := 0

	for _, rec := range raw {
		if !rec.ID.Valid {
			droppedNullID++
			continue
		}

		current, seen := winners[rec.ID.Int64]
		if !seen {
			order = append(order, rec.ID.Int64)
			winners[rec.ID.Int64] = rec
			continue
		}
		if newerCreateDate(rec, current) {
			winners[rec.ID.Int64] = rec
		}
	}

	// 2. Стандартизация полей
	cleansed := make([]models.CustomerProfile, 0, len(order))
	for _, id := range order {
		rec := winners[id]
		cleansed = append(cleansed, models.CustomerProfile{
			ID:            id,
			Key:           rec.Key,
			FirstName:     standardize.TrimText(rec.FirstName),
			LastName:      standardize.TrimText(rec.LastName),
			MaritalStatus: standardize.MaritalStatus(rec.MaritalStatus),
			Gender:        standardize.CRMGender(rec.Gender),
			CreateDate:    rec.CreateDate,
			DWHCreateDate: processedAt,
		})
	}

	if droppedNullID > 0 {
		c.logger.Debug("Отброшено профилей без идентификатора: %d", droppedNullID)
	}
	if duplicates := len(raw) - droppedNullID - len(cleansed); duplicates > 0 {
		c.logger.Debug("Свернуто дубликатов профилей: %d", duplicates)
	}

	return cleansed
}

// newerCreateDate сообщает, вытесняет ли candidate текущего победителя.
// NULL считается старше любой даты, при равенстве остается первая запись.
func newerCreateDate(candidate, current models.RawCustomerProfile) bool {
	if !candidate.CreateDate.Valid {
		return false
	}
	if !current.CreateDate.Valid {
		return true
	}
	return candidate.CreateDate.Time.After(current.CreateDate.Time)
}
