// Package observe provides OpenTelemetry metric instruments for the operator
// panel: queued, merged, pre-empted and shown notifications, queue depth and
// voice playback failures
//
// Tests build [Metrics] from an SDK MeterProvider backed by a ManualReader
// Production code may pass otel.GetMeterProvider()
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all operator metrics
const meterName = "github.com/lixenwraith/vi-operator"

// Metrics holds the instruments recorded by the display driver and operator
// A nil *Metrics is valid and records nothing
type Metrics struct {
	// Enqueued counts accepted notifications
	// Attributes: priority, result ("inserted" or "merged")
	Enqueued metric.Int64Counter

	// Preempted counts pending or showing notifications discarded by
	// non-stacking mode
	Preempted metric.Int64Counter

	// Shown counts notifications that reached the panel, by priority
	Shown metric.Int64Counter

	// Skipped counts domain events that produced no notification because the
	// catalog lacked the key, by reason
	Skipped metric.Int64Counter

	// VoiceFailures counts best-effort voice or cue playback errors
	VoiceFailures metric.Int64Counter

	// QueueDepth is the number of pending notifications after each change
	QueueDepth metric.Int64Gauge

	// DisplaySeconds records the lifetime each notification was shown with
	DisplaySeconds metric.Float64Histogram
}

var lifetimeBuckets = []float64{0.5, 1, 2, 3, 5, 8, 13}

// NewMetrics creates every instrument from mp
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Enqueued, err = m.Int64Counter("operator.notifications.enqueued",
		metric.WithDescription("Notifications accepted into the operator queue."),
	); err != nil {
		return nil, err
	}
	if met.Preempted, err = m.Int64Counter("operator.notifications.preempted",
		metric.WithDescription("Notifications discarded by non-stacking pre-emption."),
	); err != nil {
		return nil, err
	}
	if met.Shown, err = m.Int64Counter("operator.notifications.shown",
		metric.WithDescription("Notifications displayed on the operator panel."),
	); err != nil {
		return nil, err
	}
	if met.Skipped, err = m.Int64Counter("operator.events.skipped",
		metric.WithDescription("Domain events that produced no notification."),
	); err != nil {
		return nil, err
	}
	if met.VoiceFailures, err = m.Int64Counter("operator.voice.failures",
		metric.WithDescription("Voice or cue playback errors."),
	); err != nil {
		return nil, err
	}
	if met.QueueDepth, err = m.Int64Gauge("operator.queue.depth",
		metric.WithDescription("Pending notifications in the operator queue."),
	); err != nil {
		return nil, err
	}
	if met.DisplaySeconds, err = m.Float64Histogram("operator.display.duration",
		metric.WithDescription("Lifetime notifications were displayed with."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(lifetimeBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Noop returns instruments that discard every measurement
func Noop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordEnqueue counts one accepted notification and the resulting depth
func (m *Metrics) RecordEnqueue(ctx context.Context, priority, result string, depth int) {
	if m == nil {
		return
	}
	m.Enqueued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("priority", priority),
		attribute.String("result", result),
	))
	m.QueueDepth.Record(ctx, int64(depth))
}

// RecordPreempt counts notifications dropped by pre-emption
func (m *Metrics) RecordPreempt(ctx context.Context, dropped int) {
	if m == nil || dropped == 0 {
		return
	}
	m.Preempted.Add(ctx, int64(dropped))
}

// RecordShow counts one displayed notification
func (m *Metrics) RecordShow(ctx context.Context, priority string, lifetimeSeconds float64, depth int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("priority", priority))
	m.Shown.Add(ctx, 1, attrs)
	m.DisplaySeconds.Record(ctx, lifetimeSeconds, attrs)
	m.QueueDepth.Record(ctx, int64(depth))
}

// RecordSkip counts an event that produced no notification
func (m *Metrics) RecordSkip(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.Skipped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordVoiceFailure counts a playback error
func (m *Metrics) RecordVoiceFailure(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.VoiceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordDepth records the queue depth after a clear
func (m *Metrics) RecordDepth(ctx context.Context, depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Record(ctx, int64(depth))
}
