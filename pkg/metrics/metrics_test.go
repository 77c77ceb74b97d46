package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/validate"
)

func TestRecorder_StageFinished(t *testing.T) {
	r := NewRecorder()
	r.StageFinished(generator.Event{Stage: generator.StagePurchases, Rows: 1234, Elapsed: 2 * time.Second})
	r.StageFinished(generator.Event{Stage: generator.StageLoad, Rows: 50, Elapsed: time.Second})

	assert.Equal(t, 1234.0, testutil.ToFloat64(r.rows.WithLabelValues("purchases")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.durations.WithLabelValues("purchases")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.rows), "load does not produce a table")
}

func TestRecorder_Violations(t *testing.T) {
	r := NewRecorder()
	err := &validate.IntegrityError{Violations: []validate.Violation{{Table: "a"}, {Table: "b"}}}
	r.StageFinished(generator.Event{Stage: generator.StageValidate, Err: err})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.violations))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("validate")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.StageFinished(generator.Event{Stage: generator.StageSegments, Rows: 40})
	r.StageFinished(generator.Event{Stage: generator.StageValidate})

	path := filepath.Join(t.TempDir(), "demogen.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `demogen_rows_generated{table="segments"} 40`)
	assert.Contains(t, string(data), "demogen_integrity_violations 0")
}
