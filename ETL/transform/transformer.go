// Package transform строит измерения и факты бизнес-слоя из очищенных данных.
package transform

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// Transformer координирует построение измерений и фактов
type Transformer struct {
	logger      *utils.ETLLogger
	customerDim *CustomerDimensionBuilder
	productDim  *ProductDimensionBuilder
	salesFacts  *SalesFactsBuilder
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:      logger,
		customerDim: NewCustomerDimensionBuilder(logger),
		productDim:  NewProductDimensionBuilder(logger),
		salesFacts:  NewSalesFactsBuilder(logger),
	}
}

// BuildDimensions строит измерения клиентов и продуктов параллельно.
// Построители не разделяют изменяемого состояния, каждый пишет в свое поле результата.
func (t *Transformer) BuildDimensions(ctx context.Context, cleansed *models.CleansedData) (*models.DimensionalModel, error) {
	startTime := time.Now()
	t.logger.Info("Построение измерений")

	model := &models.DimensionalModel{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return fmt.Errorf("построение измерения клиентов прервано: %w", err)
		}
		model.Customers = t.customerDim.Build(cleansed.Customers, cleansed.ErpCustomers, cleansed.Locations)
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return fmt.Errorf("построение измерения продуктов прервано: %w", err)
		}
		model.Products = t.productDim.Build(cleansed.Products, cleansed.Categories)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.logger.Info("Измерения построены: клиентов %d, продуктов %d. Длительность: %v",
		len(model.Customers), len(model.Products), time.Since(startTime))

	return model, nil
}

// BuildFacts строит факты продаж по уже построенным измерениям
func (t *Transformer) BuildFacts(ctx context.Context, cleansed *models.CleansedData, model *models.DimensionalModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("построение фактов прервано: %w", err)
	}

	startTime := time.Now()
	model.Sales = t.salesFacts.Build(cleansed.Sales, model.Customers, model.Products)
	t.logger.Info("Факты продаж построены: %d. Длительность: %v", len(model.Sales), time.Since(startTime))

	return nil
}

// Transform выполняет полный процесс построения бизнес-слоя
func (t *Transformer) Transform(ctx context.Context, cleansed *models.CleansedData) (*models.DimensionalModel, error) {
	// 1. Измерения
	model, err := t.BuildDimensions(ctx, cleansed)
	if err != nil {
		return nil, fmt.Errorf("ошибка при построении измерений: %w", err)
	}

	// 2. Факты
	if err := t.BuildFacts(ctx, cleansed, model); err != nil {
		return nil, fmt.Errorf("ошибка при построении фактов: %w", err)
	}

	return model, nil
}
