package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordRegistration(ResultAccepted)
	m.RecordRegistration(ResultAccepted)
	m.RecordRegistration(ResultDuplicate)
	m.RecordParticipants(2)
	m.RecordSnapshot(true, 3*time.Millisecond)
	m.RecordExtension()
	m.RecordDraw(DrawWinner)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.registrations.WithLabelValues(ResultAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues(ResultDuplicate)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.registrations.WithLabelValues(ResultInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.participants))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshots.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extensions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.draws.WithLabelValues(DrawWinner)))
}

func TestPrometheusMetrics_WriteTextfile(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordParticipants(7)

	path := filepath.Join(t.TempDir(), "lottery.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lottery_participants 7")
}

func TestNoOpCollector(t *testing.T) {
	var c Collector = NoOpCollector{}
	c.RecordRegistration(ResultInvalid)
	c.RecordParticipants(1)
	c.RecordSnapshot(false, time.Second)
	c.RecordExtension()
	c.RecordDraw(DrawEmpty)
}
