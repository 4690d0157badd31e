package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/sales_dwh/ETL/models"
	"github.com/LilVoxy/sales_dwh/ETL/pipeline"
	"github.com/LilVoxy/sales_dwh/ETL/utils"
)

type fakeLogs struct {
	models.ETLLogRepository
	runs   []models.ETLRunLog
	stages map[string][]models.ETLStageLog
	err    error
	limit  int
}

func (f *fakeLogs) GetRecentRuns(_ context.Context, limit int) ([]models.ETLRunLog, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.runs[:min(limit, len(f.runs))], nil
}

func (f *fakeLogs) GetRun(_ context.Context, id string) (*models.ETLRunLog, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeLogs) GetStages(_ context.Context, id string) ([]models.ETLStageLog, error) {
	return f.stages[id], nil
}

type fakeViolations struct {
	check string
	limit int
}

func (f *fakeViolations) GetViolations(_ context.Context, check string, limit int) ([]models.Violation, error) {
	f.check, f.limit = check, limit
	return []models.Violation{{Check: "fact_customer_ref", NaturalKey: "SO1"}}, nil
}

type blockingRunner struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingRunner) Run(ctx context.Context) (*pipeline.RunResult, error) {
	close(b.started)
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &pipeline.RunResult{RunID: "r"}, nil
}

func newRouter(logs *fakeLogs, violations *fakeViolations, runner Runner) (*mux.Router, *RunTrigger) {
	logger := utils.NewNopLogger()
	trigger := NewRunTrigger(context.Background(), runner, logger)

	router := mux.NewRouter()
	SetupRoutes(router, Deps{Logs: logs, Violations: violations, Trigger: trigger, Logger: logger})
	return router, trigger
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func sampleLogs() *fakeLogs {
	return &fakeLogs{
		runs: []models.ETLRunLog{
			{ID: "b", Status: models.RunStatusSuccess, ViolationsFound: 2},
			{ID: "a", Status: models.RunStatusFailed, FailedStage: "extract"},
		},
		stages: map[string][]models.ETLStageLog{
			"b": {{RunID: "b", Stage: "extract", Rows: 10}, {RunID: "b", Stage: "cleanse", Rows: 9}},
		},
	}
}

func TestGetRuns(t *testing.T) {
	t.Parallel()

	logs := sampleLogs()
	router, _ := newRouter(logs, &fakeViolations{}, nil)

	rec := serve(router, http.MethodGet, "/api/runs?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body RunsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, "b", body.Runs[0].ID)
	assert.Equal(t, 1, logs.limit)

	rec = serve(router, http.MethodGet, "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultLimit, logs.limit)

	rec = serve(router, http.MethodGet, "/api/runs?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunsStoreError(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(&fakeLogs{err: errors.New("down")}, &fakeViolations{}, nil)
	rec := serve(router, http.MethodGet, "/api/runs")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRunAndStages(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(sampleLogs(), &fakeViolations{}, nil)

	rec := serve(router, http.MethodGet, "/api/runs/a")
	require.Equal(t, http.StatusOK, rec.Code)
	var run models.ETLRunLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "extract", run.FailedStage)

	rec = serve(router, http.MethodGet, "/api/runs/b/stages")
	require.Equal(t, http.StatusOK, rec.Code)
	var stages StagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	require.Len(t, stages.Stages, 2)
	assert.Equal(t, "cleanse", stages.Stages[1].Stage)

	rec = serve(router, http.MethodGet, "/api/runs/a/stages")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"run_id":"a","stages":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/runs/missing").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/runs/missing/stages").Code)
}

func TestGetViolations(t *testing.T) {
	t.Parallel()

	violations := &fakeViolations{}
	router, _ := newRouter(sampleLogs(), violations, nil)

	rec := serve(router, http.MethodGet, "/api/violations?check=fact_customer_ref&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ViolationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "SO1", body.Violations[0].NaturalKey)
	assert.Equal(t, "fact_customer_ref", violations.check)
	assert.Equal(t, 5, violations.limit)
}

func TestTriggerRunRejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	runner := &blockingRunner{release: make(chan struct{}), started: make(chan struct{})}
	router, trigger := newRouter(sampleLogs(), &fakeViolations{}, runner)

	rec := serve(router, http.MethodPost, "/api/runs")
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not start")
	}

	rec = serve(router, http.MethodPost, "/api/runs")
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(runner.release)
	trigger.Wait()
	assert.False(t, trigger.Active())
}

func TestOptionsPreflight(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(sampleLogs(), &fakeViolations{}, nil)
	rec := serve(router, http.MethodOptions, "/api/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(sampleLogs(), &fakeViolations{}, nil)
	rec := serve(router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
