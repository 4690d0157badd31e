package pipeline

import (
	"fmt"
	"time"
)

// Стадии конвейера в порядке выполнения
const (
	StageExtract         = "extract"
	StageLoadRaw         = "load_raw"
	StageCleanse         = "cleanse"
	StageLoadCleansed    = "load_cleansed"
	StageBuildDimensions = "build_dimensions"
	StageBuildFacts      = "build_facts"
	StageLoadDimensional = "load_dimensional"
	StageValidate        = "validate"
	StageLoadReport      = "load_report"
	StageExport          = "export"
)

// StageResult - структурированный итог одной стадии
type StageResult struct {
	Stage     string
	StartedAt time.Time
	Duration  time.Duration
	Rows      int
	Err       error
}

// StageError - структурная ошибка, прервавшая запуск.
// Code и State заполняются из ошибки драйвера хранилища, если она есть.
type StageError struct {
	Stage string
	Code  int
	State string
	Err   error
}

func (e *StageError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("стадия %s: %v (код %d, состояние %s)", e.Stage, e.Err, e.Code, e.State)
	}
	return fmt.Sprintf("стадия %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
