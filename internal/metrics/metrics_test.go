package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RecordProcessed()
	r.RecordProcessed()
	r.RecordEnriched()
	r.RecordTransformed(0.8)
	r.RecordError("validation")
	r.ObserveRun(1500 * time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(r.processed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.enriched), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.transformed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.errors.WithLabelValues("validation")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.errors.WithLabelValues("transform")), 0)
	assert.InDelta(t, 1.5, testutil.ToFloat64(r.runDuration), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(r.quality))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordProcessed()
	r.RecordTransformed(1.0)

	path := filepath.Join(t.TempDir(), "heritage.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.Contains(out, "heritage_records_processed_total 1"))
	assert.True(t, strings.Contains(out, "heritage_quality_score_count 1"))
}

func TestRecorder_WriteTextfile_BadPath(t *testing.T) {
	r := NewRecorder()

	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.ErrorIs(t, err, ErrWriteTextfile)
}
