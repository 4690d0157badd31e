package models_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/LilVoxy/sales_dwh/ETL/load"
	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "log.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, load.Migrate(context.Background(), db, load.DialectSQLite, utils.NewNopLogger()))
	return db
}

func TestRunLogLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := models.NewSQLETLLogRepository(newTestDB(t))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateLogEntry(ctx, "run-ok", start))

	run, err := repo.GetRun(ctx, "run-ok")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusInProgress, run.Status)
	assert.Equal(t, start, run.StartTime)

	require.NoError(t, repo.AppendStage(ctx, models.ETLStageLog{
		RunID: "run-ok", Stage: "extract", StartedAt: start, DurationMS: 120, Rows: 10, Status: models.RunStatusSuccess,
	}))
	require.NoError(t, repo.AppendStage(ctx, models.ETLStageLog{
		RunID: "run-ok", Stage: "cleanse", StartedAt: start.Add(time.Second), DurationMS: 30, Rows: 9, Status: models.RunStatusSuccess,
	}))

	end := start.Add(90 * time.Second)
	require.NoError(t, repo.UpdateLogEntrySuccess(ctx, "run-ok", end, models.RunCounters{
		RawRows: 10, CleansedRows: 9, DimensionalRows: 5, ViolationsFound: 2,
	}))

	run, err = repo.GetRun(ctx, "run-ok")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusSuccess, run.Status)
	assert.Equal(t, end, run.EndTime)
	assert.Equal(t, 9, run.CleansedRows)
	assert.Equal(t, 2, run.ViolationsFound)
	assert.InDelta(t, 90.0, run.ExecutionTimeSeconds, 0.001)

	stages, err := repo.GetStages(ctx, "run-ok")
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "extract", stages[0].Stage)
	assert.Equal(t, "cleanse", stages[1].Stage)
	assert.Equal(t, int64(120), stages[0].DurationMS)

	last, err := repo.GetLastSuccessfulRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "run-ok", last.ID)
}

func TestRunLogFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := models.NewSQLETLLogRepository(newTestDB(t))

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateLogEntry(ctx, "run-failed", start))
	require.NoError(t, repo.UpdateLogEntryFailure(ctx, "run-failed", start.Add(time.Second), models.RunFailure{
		Stage: "load_cleansed", Message: "disk full", Code: 13, State: "SQLITE_FULL",
	}))

	run, err := repo.GetRun(ctx, "run-failed")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Equal(t, "load_cleansed", run.FailedStage)
	assert.Equal(t, 13, run.ErrorCode)
	assert.Equal(t, "SQLITE_FULL", run.ErrorState)

	last, err := repo.GetLastSuccessfulRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRecentRunsAndMissingRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := models.NewSQLETLLogRepository(newTestDB(t))

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateLogEntry(ctx, id, base.Add(time.Duration(i)*time.Hour)))
	}

	runs, err := repo.GetRecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	missing, err := repo.GetRun(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestViolationRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.Exec(`INSERT INTO integrity_violations (run_id, checked_at, check_name, layer, relation, natural_key, detail)
		VALUES ('r', '2026-03-01 00:00:00', 'fact_customer_ref', 'dimensional', 'gold_fact_sales', 'SO1', 'x'),
		       ('r', '2026-03-01 00:00:00', 'sales_dates', 'cleansed', 'silver_crm_sales_details', 'SO2', 'y')`)
	require.NoError(t, err)

	repo := models.NewSQLViolationRepository(db)

	all, err := repo.GetViolations(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.GetViolations(ctx, "sales_dates", 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "SO2", filtered[0].NaturalKey)
}
