package transform

import (
	"database/sql"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// SalesFactsBuilder отвечает за построение фактов продаж
type SalesFactsBuilder struct {
	logger *utils.ETLLogger
}

// NewSalesFactsBuilder создает новый экземпляр SalesFactsBuilder
func NewSalesFactsBuilder(logger *utils.ETLLogger) *SalesFactsBuilder {
	return &SalesFactsBuilder{
		logger: logger,
	}
}

// Build разрешает суррогатные ключи продукта (по номеру продукта) и клиента
// (по идентификатору клиента). Строки без соответствия сохраняются с NULL-ключом.
func (b *SalesFactsBuilder) Build(
	sales []models.SalesLine,
	customers []models.CustomerDimension,
	products []models.ProductDimension,
) []models.SalesFact {
	b.logger.Debug("Построение фактов продаж: %d строк", len(sales))

	productKeys := make(map[string]int64, len(products))
	for _, p := range products {
		if !p.ProductNumber.Valid {
			continue
		}
		if _, exists := productKeys[p.ProductNumber.String]; !exists {
			productKeys[p.ProductNumber.String] = p.ProductKey
		}
	}

	customerKeys := make(map[int64]int64, len(customers))
	for _, c := range customers {
		if _, exists := customerKeys[c.CustomerID]; !exists {
			customerKeys[c.CustomerID] = c.CustomerKey
		}
	}

	unresolvedProducts := 0
	unresolvedCustomers := 0

	facts := make([]models.SalesFact, len(sales))
	for i, s := range sales {
		fact := models.SalesFact{
			OrderNumber:   s.OrderNumber,
			OrderDate:     s.OrderDate,
			ShippingDate:  s.ShipDate,
			DueDate:       s.DueDate,
			SalesAmount:   s.Sales,
			Quantity:      s.Quantity,
			Price:         s.Price,
			ProductNumber: s.ProductKey,
			CustomerID:    s.CustomerID,
		}

		if s.ProductKey.Valid {
			if key, ok := productKeys[s.ProductKey.String]; ok {
				fact.ProductKey = sql.NullInt64{Int64: key, Valid: true}
			}
		}
		if s.CustomerID.Valid {
			if key, ok := customerKeys[s.CustomerID.Int64]; ok {
				fact.CustomerKey = sql.NullInt64{Int64: key, Valid: true}
			}
		}

		if !fact.ProductKey.Valid {
			unresolvedProducts++
		}
		if !fact.CustomerKey.Valid {
			unresolvedCustomers++
		}

		facts[i] = fact
	}

	if unresolvedProducts > 0 || unresolvedCustomers > 0 {
		b.logger.Debug("Строки без ключа продукта: %d, без ключа клиента: %d", unresolvedProducts, unresolvedCustomers)
	}

	return facts
}
