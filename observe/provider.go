package observe

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// ProviderConfig configures the in-process metric provider
type ProviderConfig struct {
	// ServiceName is reported on the resource, default "vi-operator"
	ServiceName string

	// ServiceVersion is reported on the resource
	ServiceVersion string

	// Logger receives the end-of-run metric summary, default slog.Default()
	Logger *slog.Logger
}

// Provider owns an SDK MeterProvider backed by a ManualReader
// There is no scrape endpoint; totals are collected once at shutdown and
// written to the log
type Provider struct {
	cfg     ProviderConfig
	reader  *sdkmetric.ManualReader
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

// NewProvider returns an uninitialised Provider
func NewProvider(cfg ProviderConfig) *Provider {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "vi-operator"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Provider{cfg: cfg}
}

// Name implements service.Service
func (p *Provider) Name() string { return "metrics" }

// Dependencies implements service.Service
func (p *Provider) Dependencies() []string { return nil }

// Init builds the MeterProvider, registers it globally and creates the
// operator instruments
func (p *Provider) Init(context.Context) error {
	res, err := p.resource()
	if err != nil {
		return fmt.Errorf("metrics resource: %w", err)
	}

	p.reader = sdkmetric.NewManualReader()
	p.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(p.reader),
	)
	otel.SetMeterProvider(p.mp)

	p.metrics, err = NewMetrics(p.mp)
	if err != nil {
		return fmt.Errorf("metrics instruments: %w", err)
	}
	return nil
}

// resource merges the SDK defaults with the service identity
// The semconv import must match the schema the SDK's default resource uses
func (p *Provider) resource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(p.cfg.ServiceName),
			semconv.ServiceVersion(p.cfg.ServiceVersion),
		),
	)
}

// Start implements service.Service
// Collection is pull-based, nothing to launch
func (p *Provider) Start(context.Context) error { return nil }

// Stop logs a summary of every instrument and shuts the provider down
// Safe to call more than once
func (p *Provider) Stop() error {
	if p.mp == nil {
		return nil
	}
	ctx := context.Background()
	if totals, err := p.Totals(ctx); err == nil {
		names := make([]string, 0, len(totals))
		for name := range totals {
			names = append(names, name)
		}
		slices.Sort(names)
		attrs := make([]any, 0, 2*len(names))
		for _, name := range names {
			attrs = append(attrs, name, totals[name])
		}
		p.cfg.Logger.Info("operator metrics", attrs...)
	}
	err := p.mp.Shutdown(ctx)
	p.mp = nil
	return err
}

// Metrics returns the instruments, or nil before Init
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Totals collects current values, summing counters and gauges across
// attribute sets and reporting histogram sample counts
func (p *Provider) Totals(ctx context.Context) (map[string]float64, error) {
	if p.reader == nil {
		return nil, fmt.Errorf("metrics provider not initialised")
	}
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Value)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out[m.Name] += float64(dp.Count)
				}
			}
		}
	}
	return out, nil
}
