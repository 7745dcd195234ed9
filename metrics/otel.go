package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OtelProvider adapts an OpenTelemetry meter to the Provider interface.
// Instrument creation errors are swallowed into no-op instruments: drain
// internals must never fail because telemetry wiring did.
type OtelProvider struct {
	meter metric.Meter
}

// NewOtelProvider constructs a Provider recording through the given meter.
func NewOtelProvider(meter metric.Meter) *OtelProvider {
	return &OtelProvider{meter: meter}
}

func (p *OtelProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)
	c, err := p.meter.Int64Counter(name,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(cfg.Unit),
	)
	if err != nil {
		return noopCounter{}
	}
	return &otelCounter{c: c, attrs: otelAttrs(cfg)}
}

func (p *OtelProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)
	c, err := p.meter.Int64UpDownCounter(name,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(cfg.Unit),
	)
	if err != nil {
		return noopUpDownCounter{}
	}
	return &otelUpDownCounter{c: c, attrs: otelAttrs(cfg)}
}

func (p *OtelProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)
	h, err := p.meter.Float64Histogram(name,
		metric.WithDescription(cfg.Description),
		metric.WithUnit(cfg.Unit),
	)
	if err != nil {
		return noopHistogram{}
	}
	return &otelHistogram{h: h, attrs: otelAttrs(cfg)}
}

// otelAttrs converts static instrument attributes into a measurement option.
func otelAttrs(cfg InstrumentConfig) metric.MeasurementOption {
	kvs := make([]attribute.KeyValue, 0, len(cfg.Attributes))
	for k, v := range cfg.Attributes {
		kvs = append(kvs, attribute.String(k, v))
	}
	return metric.WithAttributes(kvs...)
}

type otelCounter struct {
	c     metric.Int64Counter
	attrs metric.MeasurementOption
}

func (c *otelCounter) Add(n int64) { c.c.Add(context.Background(), n, c.attrs) }

type otelUpDownCounter struct {
	c     metric.Int64UpDownCounter
	attrs metric.MeasurementOption
}

func (c *otelUpDownCounter) Add(n int64) { c.c.Add(context.Background(), n, c.attrs) }

type otelHistogram struct {
	h     metric.Float64Histogram
	attrs metric.MeasurementOption
}

func (h *otelHistogram) Record(v float64) { h.h.Record(context.Background(), v, h.attrs) }
