package observe

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
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

func TestRecordOutcome(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOutcome(ctx, "correction", 3)
	m.RecordOutcome(ctx, "correction", 2)
	m.RecordOutcome(ctx, "failed", 1)
	m.RecordOutcome(ctx, "tail", 0)

	met := findMetric(collect(t, reader), "ocrmatch.tokens.classified")
	if met == nil {
		t.Fatal("metric not found")
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("metric is not a sum")
	}
	got := map[string]int64{}
	for _, dp := range sum.DataPoints {
		for _, kv := range dp.Attributes.ToSlice() {
			if string(kv.Key) == "outcome" {
				got[kv.Value.AsString()] = dp.Value
			}
		}
	}
	if got["correction"] != 5 || got["failed"] != 1 {
		t.Errorf("outcomes = %v, want correction=5 failed=1", got)
	}
	if _, ok := got["tail"]; ok {
		t.Error("zero count produced a data point")
	}
}

func TestRecordLearning(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordLearning(ctx, 7, 2)
	m.RecordLearning(ctx, 3, 0)

	rm := collect(t, reader)
	for name, want := range map[string]int64{
		"ocrmatch.substitutions.learned": 10,
		"ocrmatch.insertions.learned":    2,
	} {
		met := findMetric(rm, name)
		if met == nil {
			t.Fatalf("metric %q not found", name)
		}
		sum, ok := met.Data.(metricdata.Sum[int64])
		if !ok || len(sum.DataPoints) != 1 {
			t.Fatalf("metric %q: unexpected data %T", name, met.Data)
		}
		if got := sum.DataPoints[0].Value; got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
}

func TestDurations(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordChunk(ctx, 2*time.Second)
	m.RecordChunk(ctx, 500*time.Millisecond)
	m.RecordRequest(ctx, "classify", 10*time.Millisecond)

	rm := collect(t, reader)
	for name, want := range map[string]uint64{
		"ocrmatch.chunk.duration":        2,
		"ocrmatch.http.request.duration": 1,
	} {
		met := findMetric(rm, name)
		if met == nil {
			t.Fatalf("metric %q not found", name)
		}
		hist, ok := met.Data.(metricdata.Histogram[float64])
		if !ok || len(hist.DataPoints) == 0 {
			t.Fatalf("metric %q is not a histogram with data", name)
		}
		if got := hist.DataPoints[0].Count; got != want {
			t.Errorf("%s count = %d, want %d", name, got, want)
		}
	}
}

func TestRecordCustomWord(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordCustomWord(ctx, 1)
	m.RecordCustomWord(ctx, 1)
	m.RecordCustomWord(ctx, -1)

	met := findMetric(collect(t, reader), "ocrmatch.custom_words")
	if met == nil {
		t.Fatal("metric not found")
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 {
		t.Fatalf("unexpected data %T", met.Data)
	}
	if got := sum.DataPoints[0].Value; got != 1 {
		t.Errorf("custom words = %d, want 1", got)
	}
}
