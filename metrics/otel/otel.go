// Package otel records keep-alive cache metrics through an OpenTelemetry meter.
package otel

import (
	"context"

	"github.com/IvanBrykalov/keepalive/keepalive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Adapter implements keepalive.Metrics on top of a metric.Meter.
// Instruments are created once in New; recording is safe for concurrent use.
type Adapter struct {
	hits    metric.Int64Counter
	misses  metric.Int64Counter
	bypass  metric.Int64Counter
	evicts  metric.Int64Counter
	entries metric.Int64Gauge
	attrs   metric.MeasurementOption
}

// New creates the cache instruments on meter. attrs are attached to every
// measurement (may be empty).
func New(meter metric.Meter, attrs ...attribute.KeyValue) (*Adapter, error) {
	hits, err := meter.Int64Counter(
		"keepalive.hits",
		metric.WithDescription("Render cycles that reused a kept-alive instance"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"keepalive.misses",
		metric.WithDescription("Render cycles that stored a new instance"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	bypass, err := meter.Int64Counter(
		"keepalive.uncacheable",
		metric.WithDescription("Render cycles rejected by include/exclude filters"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	evicts, err := meter.Int64Counter(
		"keepalive.evictions",
		metric.WithDescription("Entries removed from the cache"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64Gauge(
		"keepalive.entries",
		metric.WithDescription("Number of kept-alive instances"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		hits:    hits,
		misses:  misses,
		bypass:  bypass,
		evicts:  evicts,
		entries: entries,
		attrs:   metric.WithAttributes(attrs...),
	}, nil
}

// Hit records a reused instance.
func (a *Adapter) Hit() { a.hits.Add(context.Background(), 1, a.attrs) }

// Miss records a newly stored instance.
func (a *Adapter) Miss() { a.misses.Add(context.Background(), 1, a.attrs) }

// Bypass records an uncacheable cycle.
func (a *Adapter) Bypass() { a.bypass.Add(context.Background(), 1, a.attrs) }

// Evict records a removal, tagged with keepalive.evict.reason.
func (a *Adapter) Evict(r keepalive.EvictReason) {
	a.evicts.Add(context.Background(), 1, a.attrs,
		metric.WithAttributes(attribute.String("keepalive.evict.reason", r.String())))
}

// Size records the current entry count.
func (a *Adapter) Size(entries int) {
	a.entries.Record(context.Background(), int64(entries), a.attrs)
}

var _ keepalive.Metrics = (*Adapter)(nil)
