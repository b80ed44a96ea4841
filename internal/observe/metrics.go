// Package observe holds the matcher's observability plumbing: OpenTelemetry
// metrics bridged to Prometheus, and the slog logger shared by the commands.
//
// Tests should build [Metrics] with [NewMetrics] over their own
// [metric.MeterProvider] instead of using [DefaultMetrics].
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of every matcher metric.
const meterName = "ocrmatch"

// Metrics holds the metric instruments of the matcher. The OTel instruments
// synchronise themselves, so a Metrics may be shared.
type Metrics struct {
	// TokensClassified counts classified tokens. Use with attribute:
	//   attribute.String("outcome", ...)
	TokensClassified metric.Int64Counter

	// SubstitutionsLearned counts substitution pairs recorded by traceback.
	SubstitutionsLearned metric.Int64Counter

	// InsertionsLearned counts two-to-one insertion patterns recorded by traceback.
	InsertionsLearned metric.Int64Counter

	// ChunkDuration tracks how long one token chunk takes to classify.
	ChunkDuration metric.Float64Histogram

	// HTTPRequestDuration tracks API latency. Use with attribute:
	//   attribute.String("route", ...)
	HTTPRequestDuration metric.Float64Histogram

	// CustomWords tracks words added to the precision lexicon at runtime.
	CustomWords metric.Int64UpDownCounter
}

var chunkBuckets = []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TokensClassified, err = m.Int64Counter("ocrmatch.tokens.classified",
		metric.WithDescription("Tokens classified, by outcome."),
	); err != nil {
		return nil, err
	}
	if met.SubstitutionsLearned, err = m.Int64Counter("ocrmatch.substitutions.learned",
		metric.WithDescription("Substitution pairs recorded from accepted matches."),
	); err != nil {
		return nil, err
	}
	if met.InsertionsLearned, err = m.Int64Counter("ocrmatch.insertions.learned",
		metric.WithDescription("Insertion patterns recorded from accepted matches."),
	); err != nil {
		return nil, err
	}
	if met.ChunkDuration, err = m.Float64Histogram("ocrmatch.chunk.duration",
		metric.WithDescription("Time to classify one chunk of tokens."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(chunkBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("ocrmatch.http.request.duration",
		metric.WithDescription("API request latency by route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if met.CustomWords, err = m.Int64UpDownCounter("ocrmatch.custom_words",
		metric.WithDescription("Words added to the precision lexicon at runtime."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built on the global meter
// provider, so it must be called after [InitProvider].
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordOutcome counts n tokens classified as outcome.
func (m *Metrics) RecordOutcome(ctx context.Context, outcome string, n int64) {
	if n == 0 {
		return
	}
	m.TokensClassified.Add(ctx, n, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordLearning counts what a traceback pass contributed.
func (m *Metrics) RecordLearning(ctx context.Context, substitutions, insertions int64) {
	m.SubstitutionsLearned.Add(ctx, substitutions)
	m.InsertionsLearned.Add(ctx, insertions)
}

// RecordChunk records the time one chunk took.
func (m *Metrics) RecordChunk(ctx context.Context, d time.Duration) {
	m.ChunkDuration.Record(ctx, d.Seconds())
}

// RecordRequest records the latency of one API request.
func (m *Metrics) RecordRequest(ctx context.Context, route string, d time.Duration) {
	m.HTTPRequestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("route", route)))
}

// RecordCustomWord tracks a word added (delta 1) or removed (delta -1).
func (m *Metrics) RecordCustomWord(ctx context.Context, delta int64) {
	m.CustomWords.Add(ctx, delta)
}
