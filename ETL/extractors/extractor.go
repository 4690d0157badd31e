// Package extractors читает выгрузки CRM и ERP в сырые модели.
package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// Sources описывает расположение исходных файлов
type Sources struct {
	Dir string

	CRMCustomers string
	CRMProducts  string
	CRMSales     string
	ERPCustomers string
	ERPLocations string
	ERPCategory  string
}

// DefaultSources возвращает стандартную раскладку выгрузок в каталоге dir
func DefaultSources(dir string) Sources {
	return Sources{
		Dir:          dir,
		CRMCustomers: filepath.Join("source_crm", "cust_info.csv"),
		CRMProducts:  filepath.Join("source_crm", "prd_info.csv"),
		CRMSales:     filepath.Join("source_crm", "sales_details.csv"),
		ERPCustomers: filepath.Join("source_erp", "CUST_AZ12.csv"),
		ERPLocations: filepath.Join("source_erp", "LOC_A101.csv"),
		ERPCategory:  filepath.Join("source_erp", "PX_CAT_G1V2.csv"),
	}
}

func (s Sources) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Extractor координирует процесс извлечения данных из исходных файлов
type Extractor struct {
	sources Sources
	logger  *utils.ETLLogger
	crm     *CRMExtractor
	erp     *ERPExtractor
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(sources Sources, logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		sources: sources,
		logger:  logger,
		crm:     NewCRMExtractor(logger),
		erp:     NewERPExtractor(logger),
	}
}

// Extract выполняет полное извлечение всех шести потоков
func (e *Extractor) Extract(ctx context.Context) (*models.RawData, error) {
	startTime := time.Now()
	e.logger.Info("Начало извлечения данных из %s", e.sources.Dir)

	var raw models.RawData
	var err error

	// 1. Профили клиентов CRM
	if raw.Customers, err = e.crm.ExtractCustomers(ctx, e.sources.path(e.sources.CRMCustomers)); err != nil {
		return nil, err
	}

	// 2. Каталог продуктов CRM
	if raw.Products, err = e.crm.ExtractProducts(ctx, e.sources.path(e.sources.CRMProducts)); err != nil {
		return nil, err
	}

	// 3. Продажи CRM
	if raw.Sales, err = e.crm.ExtractSales(ctx, e.sources.path(e.sources.CRMSales)); err != nil {
		return nil, err
	}

	// 4. Клиенты ERP
	if raw.ErpCustomers, err = e.erp.ExtractCustomers(ctx, e.sources.path(e.sources.ERPCustomers)); err != nil {
		return nil, err
	}

	// 5. Местоположения ERP
	if raw.Locations, err = e.erp.ExtractLocations(ctx, e.sources.path(e.sources.ERPLocations)); err != nil {
		return nil, err
	}

	// 6. Категории ERP
	if raw.Categories, err = e.erp.ExtractCategories(ctx, e.sources.path(e.sources.ERPCategory)); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("извлечение прервано: %w", err)
	}

	e.logger.Info("Извлечение завершено: %d записей. Длительность: %v", raw.Rows(), time.Since(startTime))

	return &raw, nil
}
