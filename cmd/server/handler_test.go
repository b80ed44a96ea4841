package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"ocrmatch/internal/app"
	"ocrmatch/internal/cabinet"
	"ocrmatch/internal/corrector"
	"ocrmatch/internal/customdict"
	"ocrmatch/internal/observe"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	recall := []corrector.DictionaryEntry{
		corrector.NewEntry("the", 1000000, false),
		corrector.NewEntry("morning", 5000, false),
		corrector.NewEntry("london", 5000, true),
	}
	lex := corrector.NewLexicon(recall, []string{"cat"})

	counts := new(corrector.CountTable)
	counts['1'][corrector.DictCodeOf('l')] = 100
	counts['e'][corrector.DictCodeOf('h')] = 1000
	counts['h'][corrector.DictCodeOf('e')] = 1000

	client := customdict.NewMemoryClient()
	eng := &app.Engine{
		Corrector: corrector.NewSpellCorrector(corrector.DefaultConfig(), lex, corrector.BuildMatrix(counts)),
		Lexicon:   lex,
		Prior:     counts,
		Words:     customdict.New(client, ""),
		Patterns:  customdict.NewPatternStore(client, ""),
	}
	m, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatal(err)
	}
	return newServer(eng, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClassifyHandler(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := do(t, s.routes(), http.MethodPost, "/api/v1/classify", `{"tokens":["the","ing","zq"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Results []classifyResult `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	want := []classifyResult{
		{Token: "the", Outcome: "unchanged", Word: "the"},
		{Token: "ing", Outcome: "tail", Word: "morning"},
		{Token: "zq", Outcome: "failed"},
	}
	if len(resp.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(resp.Results), len(want))
	}
	for i := range want {
		if resp.Results[i] != want[i] {
			t.Errorf("result %d = %+v, want %+v", i, resp.Results[i], want[i])
		}
	}
}

func TestClassifyHandler_BadRequest(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	for _, body := range []string{"", "{", `{"tokens":[]}`} {
		if rec := do(t, s.routes(), http.MethodPost, "/api/v1/classify", body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d", body, rec.Code)
		}
	}
	if rec := do(t, s.routes(), http.MethodGet, "/api/v1/classify", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}
}

func TestCustomWordHandlers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	h := s.routes()
	ctx := context.Background()

	if rec := do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":" vellum "}`); rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rec.Code)
	}
	if !s.eng.Lexicon.Contains("vellum") {
		t.Error("word not added to lexicon")
	}
	if words, _ := s.eng.Words.All(ctx); len(words) != 1 || words[0] != "vellum" {
		t.Errorf("stored words = %v", words)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty word status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, "/api/v1/custom-word/vellum", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if s.eng.Lexicon.Contains("vellum") {
		t.Error("word still in lexicon")
	}
	if words, _ := s.eng.Words.All(ctx); len(words) != 0 {
		t.Errorf("stored words after delete = %v", words)
	}
}

// recordTo swaps s's metrics for ones read through the returned reader.
func recordTo(t *testing.T, s *server) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatal(err)
	}
	s.metrics = m
	return reader
}

func customWordCount(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "ocrmatch.custom_words" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 {
				t.Fatalf("unexpected data %T", m.Data)
			}
			return sum.DataPoints[0].Value
		}
	}
	return 0
}

func TestRemoveWord_KeepsBaseWord(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	h := s.routes()
	if rec := do(t, h, http.MethodDelete, "/api/v1/custom-word/cat", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if !s.eng.Lexicon.Contains("cat") {
		t.Fatal("deleting a custom word dropped a dictionary word")
	}
	rec := do(t, h, http.MethodPost, "/api/v1/classify", `{"tokens":["cat"]}`)
	if !strings.Contains(rec.Body.String(), `"outcome":"unchanged"`) {
		t.Errorf("classify body = %s", rec.Body)
	}
}

func TestCustomWordMetric(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	reader := recordTo(t, s)
	h := s.routes()

	do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"vellum"}`)
	do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"vellum"}`)
	if got := customWordCount(t, reader); got != 1 {
		t.Errorf("after duplicate add: custom words = %d, want 1", got)
	}

	do(t, h, http.MethodDelete, "/api/v1/custom-word/vellum", "")
	do(t, h, http.MethodDelete, "/api/v1/custom-word/vellum", "")
	do(t, h, http.MethodDelete, "/api/v1/custom-word/cat", "")
	if got := customWordCount(t, reader); got != 0 {
		t.Errorf("after removes: custom words = %d, want 0", got)
	}
}

func TestFlush(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	dir := t.TempDir()
	ctx := context.Background()

	if err := s.flush(ctx, dir); err != nil {
		t.Fatalf("empty flush: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, cabinet.CharMatrix)); !os.IsNotExist(err) {
		t.Error("empty flush wrote a matrix")
	}

	rec := do(t, s.routes(), http.MethodPost, "/api/v1/classify", `{"tokens":["Lonclon"],"titlecase":true}`)
	if !strings.Contains(rec.Body.String(), `"word":"london"`) {
		t.Fatalf("classify body = %s", rec.Body)
	}
	before := s.eng.Prior['c'][corrector.DictCodeOf('d')]
	if err := s.flush(ctx, dir); err != nil {
		t.Fatalf("flush: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, cabinet.InsertionReport))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "d-cl\t1") {
		t.Errorf("insertion report = %q", data)
	}
	if _, err := cabinet.ReadCountTable(filepath.Join(dir, cabinet.CharMatrix)); err != nil {
		t.Errorf("matrix not readable: %v", err)
	}
	if got := s.eng.Prior['c'][corrector.DictCodeOf('d')]; got != before+1 {
		t.Errorf("prior c->d = %d, want %d", got, before+1)
	}
	report, err := s.eng.Patterns.Report(ctx)
	if err != nil || len(report) != 1 || report[0].Pattern != "d-cl" {
		t.Errorf("stored patterns = %v, %v", report, err)
	}
}
