package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_Counters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordEnqueue(ctx, "Wave", "inserted", 1)
	m.RecordEnqueue(ctx, "Enhance_Optical", "merged", 1)
	m.RecordPreempt(ctx, 3)
	m.RecordPreempt(ctx, 0)
	m.RecordShow(ctx, "Wave", 3, 0)
	m.RecordSkip(ctx, "missing_key")
	m.RecordVoiceFailure(ctx, "voice")

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, findMetric(rm, "operator.notifications.enqueued")))
	assert.Equal(t, int64(3), sumOf(t, findMetric(rm, "operator.notifications.preempted")))
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "operator.notifications.shown")))
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "operator.events.skipped")))
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "operator.voice.failures")))

	depth := findMetric(rm, "operator.queue.depth")
	require.NotNil(t, depth)
	gauge, ok := depth.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.NotEmpty(t, gauge.DataPoints)
	assert.Equal(t, int64(0), gauge.DataPoints[0].Value)

	hist := findMetric(rm, "operator.display.duration")
	require.NotNil(t, hist)
	h, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordEnqueue(ctx, "Wave", "inserted", 1)
		m.RecordPreempt(ctx, 1)
		m.RecordShow(ctx, "Wave", 1, 0)
		m.RecordSkip(ctx, "x")
		m.RecordVoiceFailure(ctx, "cue")
		m.RecordDepth(ctx, 0)
	})
	assert.NotNil(t, Noop())
}
