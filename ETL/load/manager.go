package load

import (
	"context"
	"fmt"
	"time"

	"github.com/LilVoxy/sales_dwh/ETL/dataset"
	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

// LoadManager отвечает за публикацию слоев хранилища
type LoadManager struct {
	logger *utils.ETLLogger
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(loader Loader, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		logger: logger,
		loader: loader,
	}
}

// LoadRaw публикует сырой слой (bronze_*)
func (m *LoadManager) LoadRaw(ctx context.Context, raw *models.RawData) (int, error) {
	return m.publish(ctx, "сырого слоя", dataset.RawRelations(raw))
}

// LoadCleansed публикует очищенный слой (silver_*)
func (m *LoadManager) LoadCleansed(ctx context.Context, cleansed *models.CleansedData) (int, error) {
	return m.publish(ctx, "очищенного слоя", dataset.CleansedRelations(cleansed))
}

// LoadDimensional публикует измерения и факты (gold_*)
func (m *LoadManager) LoadDimensional(ctx context.Context, model *models.DimensionalModel) (int, error) {
	return m.publish(ctx, "бизнес-слоя", dataset.DimensionalRelations(model))
}

// LoadReport публикует нарушения целостности запуска
func (m *LoadManager) LoadReport(ctx context.Context, runID string, report *models.IntegrityReport) (int, error) {
	return m.publish(ctx, "отчета о целостности", []dataset.Relation{dataset.ViolationsRelation(runID, report)})
}

func (m *LoadManager) publish(ctx context.Context, what string, relations []dataset.Relation) (int, error) {
	startTime := time.Now()
	m.logger.Debug("Загрузка %s: %d отношений", what, len(relations))

	if err := m.loader.Publish(ctx, relations...); err != nil {
		m.logger.Error("Ошибка при загрузке %s: %v", what, err)
		return 0, fmt.Errorf("ошибка при загрузке %s: %w", what, err)
	}

	rows := dataset.Rows(relations)
	m.logger.Info("Загрузка %s завершена: %d строк. Длительность: %v", what, rows, time.Since(startTime))

	return rows, nil
}
