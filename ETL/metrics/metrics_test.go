package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStage(t *testing.T) {
	ObserveStage("metrics_test_stage", 20*time.Millisecond, 42, nil)
	assert.Equal(t, 42.0, testutil.ToFloat64(StageRows.WithLabelValues("metrics_test_stage")))

	ObserveStage("metrics_test_stage", time.Millisecond, 7, errors.New("boom"))
	assert.Equal(t, 42.0, testutil.ToFloat64(StageRows.WithLabelValues("metrics_test_stage")), "failed stage keeps the last row count")
}

func TestObserveRunAndViolations(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("success"))
	finished := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ObserveRun("success", finished)
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(LastSuccessTimestamp))

	ObserveViolations(map[string]int{"sales_dates": 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(IntegrityViolations.WithLabelValues("sales_dates")))

	ObserveViolations(map[string]int{})
	assert.Equal(t, 0, testutil.CollectAndCount(IntegrityViolations))
}
