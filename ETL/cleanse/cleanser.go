// Package cleanse превращает сырые записи исходных систем в очищенный слой.
package cleanse

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// Cleanser координирует очистку всех сущностей
type Cleanser struct {
	clock     clockwork.Clock
	logger    *utils.ETLLogger
	customers *CustomerProfileCleanser
	products  *ProductCatalogCleanser
	sales     *SalesLineCleanser
	erp       *ErpCustomerCleanser
}

// NewCleanser создает новый экземпляр Cleanser
func NewCleanser(clock clockwork.Clock, logger *utils.ETLLogger) *Cleanser {
	return &Cleanser{
		clock:     clock,
		logger:    logger,
		customers: NewCustomerProfileCleanser(logger),
		products:  NewProductCatalogCleanser(logger),
		sales:     NewSalesLineCleanser(logger),
		erp:       NewErpCustomerCleanser(logger),
	}
}

// Cleanse выполняет очистку всех сырых сущностей. Время обработки берется
// из часов один раз и проставляется во все записи запуска.
func (c *Cleanser) Cleanse(ctx context.Context, raw *models.RawData) (*models.CleansedData, error) {
	startTime := time.Now()
	c.logger.Info("Начало очистки данных")

	processedAt := c.clock.Now().UTC()
	out := &models.CleansedData{ProcessedAt: processedAt}

	steps := []struct {
		name string
		run  func()
	}{
		// 1. Профили клиентов
		{"профили клиентов", func() { out.Customers = c.customers.Cleanse(raw.Customers, processedAt) }},
		// 2. Каталог продуктов
		{"каталог продуктов", func() { out.Products = c.products.Cleanse(raw.Products, processedAt) }},
		// 3. Строки продаж
		{"строки продаж", func() { out.Sales = c.sales.Cleanse(raw.Sales, processedAt) }},
		// 4. Клиенты ERP
		{"клиенты ERP", func() { out.ErpCustomers = c.erp.Cleanse(raw.ErpCustomers, processedAt) }},
		// 5. Местоположения и категории
		{"местоположения", func() { out.Locations = CleanseLocations(raw.Locations, processedAt) }},
		{"категории", func() { out.Categories = CleanseCategories(raw.Categories, processedAt) }},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("очистка прервана перед шагом %q: %w", step.name, err)
		}
		step.run()
	}

	c.logger.Info("Очистка завершена: %d записей. Длительность: %v", out.Rows(), time.Since(startTime))

	return out, nil
}
