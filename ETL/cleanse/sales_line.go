package cleanse

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/standardize"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// SalesLineCleanser отвечает за очистку строк продаж CRM
type SalesLineCleanser struct {
	logger *utils.ETLLogger
}

// NewSalesLineCleanser создает новый экземпляр SalesLineCleanser
func NewSalesLineCleanser(logger *utils.ETLLogger) *SalesLineCleanser {
	return &SalesLineCleanser{
		logger: logger,
	}
}

// Cleanse переводит целочисленные даты в календарные и ремонтирует сумму и цену
func (c *SalesLineCleanser) Cleanse(raw []models.RawSalesLine, processedAt time.Time) []models.SalesLine {
	c.logger.Debug("Очистка строк продаж: %d записей", len(raw))

	repairedAmounts := 0
	repairedPrices := 0

	cleansed := make([]models.SalesLine, len(raw))
	for i, rec := range raw {
		amount := standardize.SalesAmount(rec.Sales, rec.Quantity, rec.Price)
		price := standardize.UnitPrice(rec.Price, amount, rec.Quantity)

		if !sameDecimal(amount, rec.Sales) {
			repairedAmounts++
		}
		if !sameDecimal(price, rec.Price) {
			repairedPrices++
		}

		cleansed[i] = models.SalesLine{
			OrderNumber:   rec.OrderNumber,
			ProductKey:    rec.ProductKey,
			CustomerID:    rec.CustomerID,
			OrderDate:     standardize.IntDate(rec.OrderDate),
			ShipDate:      standardize.IntDate(rec.ShipDate),
			DueDate:       standardize.IntDate(rec.DueDate),
			Sales:         amount,
			Quantity:      rec.Quantity,
			Price:         price,
			DWHCreateDate: processedAt,
		}
	}

	c.logger.Debug("Пересчитано сумм: %d, цен: %d", repairedAmounts, repairedPrices)

	return cleansed
}

func sameDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
