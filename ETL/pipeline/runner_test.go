package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/LilVoxy/sales_dwh/ETL/export"
	"github.com/LilVoxy/sales_dwh/ETL/extractors"
	"github.com/LilVoxy/sales_dwh/ETL/load"
	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
	"github.com/LilVoxy/sales_dwh/ETL/validate"
)

var processingTime = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (s *recordingSink) Publish(event ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func writeFixture(t *testing.T) extractors.Sources {
	t.Helper()

	dir := t.TempDir()
	sources := extractors.DefaultSources(dir)

	files := map[string]string{
		sources.CRMCustomers: "cst_id,cst_key,cst_firstname,cst_lastname,cst_marital_status,cst_gndr,cst_create_date\n" +
			"11000,AW00011000, Jon,Yang ,M,M,2025-10-06\n" +
			"11001,AW00011001,Eugene,Huang,S,,2025-10-06\n" +
			"11000,AW00011000,Jon,Yang,M,M,2025-10-07\n",
		sources.CRMProducts: "prd_id,prd_key,prd_nm,prd_cost,prd_line,prd_start_dt,prd_end_dt\n" +
			"210,CO-RF-FR-R92B-58,HL Road Frame,,R ,2003-07-01,\n" +
			"211,BI-RB-BK-R93R-62,Road-150 Red,2171,R,2011-07-01,\n",
		sources.CRMSales: "sls_ord_num,sls_prd_key,sls_cust_id,sls_order_dt,sls_ship_dt,sls_due_dt,sls_sales,sls_quantity,sls_price\n" +
			"SO43697,BK-R93R-62,11000,20101229,20110105,20110110,3578.27,1,3578.27\n" +
			"SO43698,BK-R93R-62,99999,20101229,20110105,20110110,,2,100\n",
		sources.ERPCustomers: "CID,BDATE,GEN\nNASAW00011000,1971-10-06,Male\nAW00011001,1965-01-01,F\n",
		sources.ERPLocations: "CID,CNTRY\nAW-00011000,Australia\nAW-00011001,US\n",
		sources.ERPCategory:  "ID,CAT,SUBCAT,MAINTENANCE\nBI_RB,Bikes,Road Bikes,Yes\nCO_RF,Components,Road Frames,No\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return sources
}

type harness struct {
	db       *sql.DB
	loader   *load.SQLLoader
	logs     *models.SQLETLLogRepository
	exporter *export.Exporter
	sink     *recordingSink
	runner   *Runner
}

func newHarness(t *testing.T, sources extractors.Sources) *harness {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "dwh.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := utils.NewNopLogger()
	require.NoError(t, load.Migrate(context.Background(), db, load.DialectSQLite, logger))

	h := &harness{
		db:       db,
		loader:   load.NewSQLLoader(db, load.DialectSQLite, 100, logger),
		logs:     models.NewSQLETLLogRepository(db),
		exporter: export.NewExporter(t.TempDir(), 0, logger),
		sink:     &recordingSink{},
	}
	h.runner = NewRunner(Dependencies{
		Extractor: extractors.NewExtractor(sources, logger),
		Loader:    h.loader,
		Locker:    h.loader,
		Logs:      h.logs,
		Exporter:  h.exporter,
		Sink:      h.sink,
		Clock:     clockwork.NewFakeClockAt(processingTime),
		Logger:    logger,
	}, Options{LoadRaw: true, Export: true, LockStaleAfter: time.Hour})

	return h
}

func TestRunPublishesEveryLayer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, writeFixture(t))

	result, err := h.runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, result.Status)

	stages := make([]string, 0, len(result.Stages))
	for _, s := range result.Stages {
		stages = append(stages, s.Stage)
		assert.NoError(t, s.Err)
	}
	assert.Equal(t, []string{
		StageExtract, StageLoadRaw, StageCleanse, StageLoadCleansed, StageBuildDimensions,
		StageBuildFacts, StageLoadDimensional, StageValidate, StageLoadReport, StageExport,
	}, stages)

	var customers, products, sales int
	require.NoError(t, h.db.QueryRow("SELECT COUNT(*) FROM "+models.GoldCustomers).Scan(&customers))
	require.NoError(t, h.db.QueryRow("SELECT COUNT(*) FROM "+models.GoldProducts).Scan(&products))
	require.NoError(t, h.db.QueryRow("SELECT COUNT(*) FROM "+models.GoldSales).Scan(&sales))
	assert.Equal(t, 2, customers)
	assert.Equal(t, 2, products)
	assert.Equal(t, 2, sales)

	var bronze int
	require.NoError(t, h.db.QueryRow("SELECT COUNT(*) FROM "+models.BronzeCustomers).Scan(&bronze))
	assert.Equal(t, 3, bronze, "bronze keeps duplicates")

	// продажа клиенту 99999 не находит измерение, но запуск не падает
	require.NotNil(t, result.Report)
	assert.Positive(t, result.Report.CountByCheck()[validate.CheckFactCustomerRef])
	assert.Equal(t, len(result.Report.Violations), result.Counters.ViolationsFound)

	run, err := h.logs.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusSuccess, run.Status)
	assert.Equal(t, result.Counters.DimensionalRows, run.DimensionalRows)

	logged, err := h.logs.GetStages(ctx, result.RunID)
	require.NoError(t, err)
	assert.Len(t, logged, len(stages))

	types := h.sink.types()
	require.NotEmpty(t, types)
	assert.Equal(t, EventRunStarted, types[0])
	assert.Equal(t, EventRunCompleted, types[len(types)-1])

	current, err := h.exporter.Current()
	require.NoError(t, err)
	assert.Equal(t, result.SnapshotPath, current)
}

func TestRunIsIdempotentForFixedProcessingTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, writeFixture(t))

	first, err := h.runner.Run(ctx)
	require.NoError(t, err)
	second, err := h.runner.Run(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first.RunID, second.RunID)

	entries, err := os.ReadDir(first.SnapshotPath)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		// отчет о нарушениях содержит идентификатор запуска
		if e.Name() == models.IntegrityViolations+".csv.sz" {
			continue
		}
		a, err := os.ReadFile(filepath.Join(first.SnapshotPath, e.Name()))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second.SnapshotPath, e.Name()))
		require.NoError(t, err)
		assert.Equal(t, a, b, e.Name())
	}

	assert.Equal(t, first.Counters, second.Counters)
}

func TestRunFailsWithStageError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sources := writeFixture(t)
	require.NoError(t, os.Remove(filepath.Join(sources.Dir, sources.ERPCategory)))

	h := newHarness(t, sources)

	result, err := h.runner.Run(ctx)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageExtract, stageErr.Stage)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NotNil(t, result)
	assert.Equal(t, models.RunStatusFailed, result.Status)
	require.Len(t, result.Stages, 1)

	run, err := h.logs.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Equal(t, StageExtract, run.FailedStage)

	types := h.sink.types()
	assert.Equal(t, EventRunFailed, types[len(types)-1])

	// ничего не опубликовано
	var tables int
	require.NoError(t, h.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = ?", models.GoldSales).Scan(&tables))
	assert.Zero(t, tables)
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, writeFixture(t))

	lock, err := h.loader.AcquireRunLock(ctx, "other-process", time.Hour)
	require.NoError(t, err)

	_, err = h.runner.Run(ctx)
	require.True(t, errors.Is(err, load.ErrRunInProgress))

	require.NoError(t, lock.Release(ctx))

	_, err = h.runner.Run(ctx)
	require.NoError(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, writeFixture(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.runner.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStageErrorMessage(t *testing.T) {
	t.Parallel()

	plain := &StageError{Stage: StageCleanse, Err: errors.New("boom")}
	assert.Equal(t, "стадия cleanse: boom", plain.Error())

	coded := &StageError{Stage: StageLoadCleansed, Code: 1062, State: "23000", Err: errors.New("duplicate")}
	assert.Contains(t, coded.Error(), "1062")
	assert.Contains(t, coded.Error(), "23000")
}
