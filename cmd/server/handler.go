package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ocrmatch/internal/app"
	"ocrmatch/internal/batch"
	"ocrmatch/internal/corrector"
	"ocrmatch/internal/customdict"
	"ocrmatch/internal/observe"
)

type server struct {
	eng     *app.Engine
	metrics *observe.Metrics
	log     *slog.Logger

	// learned collects traceback counts from every request until flush.
	mu      sync.Mutex
	learned *corrector.Accumulator
}

func newServer(eng *app.Engine, m *observe.Metrics, log *slog.Logger) *server {
	return &server{
		eng:     eng,
		metrics: m,
		log:     log,
		learned: corrector.NewAccumulator(),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/classify", s.timed("classify", s.handleClassify))
	mux.Handle("POST /api/v1/custom-word", s.timed("custom-word", s.handleAddWord))
	mux.Handle("DELETE /api/v1/custom-word/{word}", s.timed("custom-word-delete", s.handleRemoveWord))
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *server) timed(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.metrics.RecordRequest(r.Context(), route, time.Since(start))
	})
}

type classifyRequest struct {
	Tokens    []string `json:"tokens"`
	Titlecase bool     `json:"titlecase"`
}

type classifyResult struct {
	Token   string `json:"token"`
	Outcome string `json:"outcome"`
	Word    string `json:"word,omitempty"`
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Tokens) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	acc := corrector.NewAccumulator()
	tokens := make([]corrector.Token, len(req.Tokens))
	for i, t := range req.Tokens {
		tokens[i] = corrector.Token{Word: t, Titlecase: req.Titlecase}
	}
	matches := s.eng.Corrector.MineMatches(tokens, acc)

	ctx := r.Context()
	outcomes := make(map[corrector.Outcome]int64)
	results := make([]classifyResult, len(matches))
	for i, m := range matches {
		outcomes[m.Outcome]++
		results[i] = classifyResult{Token: req.Tokens[i], Outcome: m.Outcome.String(), Word: m.Word}
	}
	for o, n := range outcomes {
		s.metrics.RecordOutcome(ctx, o.String(), n)
	}
	s.metrics.RecordLearning(ctx, acc.Total(), acc.Inserted())

	s.mu.Lock()
	s.learned.Merge(acc)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	word := strings.TrimSpace(req.Word)
	added, err := s.eng.Words.Add(r.Context(), word)
	if err != nil {
		if errors.Is(err, customdict.ErrEmptyWord) {
			writeError(w, http.StatusBadRequest, "word is required")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.eng.Lexicon.Add(word)
	if added {
		s.metrics.RecordCustomWord(r.Context(), 1)
	}
	s.log.Info("custom word added", "word", word)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *server) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	removed, err := s.eng.Words.Remove(r.Context(), word)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.eng.Lexicon.Remove(word)
	if removed {
		s.metrics.RecordCustomWord(r.Context(), -1)
	}
	s.log.Info("custom word removed", "word", word)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// flush writes everything learned since the last flush into dir and the
// pattern store, and folds it into the engine's prior.
func (s *server) flush(ctx context.Context, dir string) error {
	s.mu.Lock()
	learned := s.learned
	s.learned = corrector.NewAccumulator()
	s.mu.Unlock()

	report := learned.InsertionReport()
	if learned.Total() == 0 && learned.Inserted() == 0 {
		return nil
	}
	updated, err := batch.WriteLearning(dir, s.eng.Prior, learned)
	if err != nil {
		return err
	}
	s.eng.Prior = updated
	if err := s.eng.Patterns.Add(ctx, report); err != nil {
		return err
	}
	s.log.Info("learning flushed", "dir", dir, "substitutions", learned.Total(), "patterns", len(report))
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
