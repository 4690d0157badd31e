package cleanse

import (
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// ErpCustomerCleanser отвечает за очистку данных клиентов ERP
type ErpCustomerCleanser struct {
	logger *utils.ETLLogger
}

// NewErpCustomerCleanser создает новый экземпляр ErpCustomerCleanser
func NewErpCustomerCleanser(logger *utils.ETLLogger) *ErpCustomerCleanser {
	return &ErpCustomerCleanser{
		logger: logger,
	}
}

// Cleanse убирает префикс идентификатора, обнуляет даты рождения в будущем
// и стандартизирует пол
func (c *ErpCustomerCleanser) Cleanse(raw []models.RawErpCustomerDetail, processedAt time.Time) []models.ErpCustomerDetail {
	c.logger.Debug("Очистка клиентов ERP: %d записей", len(raw))

	cleansed := make([]models.ErpCustomerDetail, len(raw))
	for i, rec := range raw {
		cleansed[i] = models.ErpCustomerDetail{
			CID:           standardize.StripERPCustomerPrefix(rec.CID),
			Birthdate:     standardize.NotAfter(rec.Birthdate, processedAt),
			Gender:        standardize.ERPGender(rec.Gender),
			DWHCreateDate: processedAt,
		}
	}

	return cleansed
}
