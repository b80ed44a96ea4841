// Package batch classifies token files in parallel and sorts the results
// into the files a reviewer works through: failures, tail fragments, new
// correction rules, and archaic forms to add to the dictionary.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ocrmatch/internal/cabinet"
	"ocrmatch/internal/corrector"
	"ocrmatch/internal/observe"
)

const defaultChunkSize = 50000

// Runner classifies tokens with a shared, read-only SpellCorrector. Each
// worker learns into its own Accumulator; the accumulators are merged once
// every chunk is done.
type Runner struct {
	sc        *corrector.SpellCorrector
	chunkSize int
	workers   int
	metrics   *observe.Metrics
	log       *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithChunkSize sets how many tokens a worker takes at a time.
func WithChunkSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// WithWorkers sets the number of concurrent workers. Zero or less means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithMetrics records outcome counts, learning and chunk latency on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRunner(sc *corrector.SpellCorrector, opts ...Option) *Runner {
	r := &Runner{
		sc:        sc,
		chunkSize: defaultChunkSize,
		workers:   runtime.GOMAXPROCS(0),
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Report is the outcome of one Run. Results is in input order.
type Report struct {
	Results []corrector.MatchResult

	Failed          []string
	Tails           []string
	Rules           []string
	AddToDictionary []string

	Outcomes map[corrector.Outcome]int
	Learned  *corrector.Accumulator
}

// Run classifies tokens. It stops early, returning ctx's error, when ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context, tokens []cabinet.TokenRecord) (*Report, error) {
	chunks := cabinet.Chunk(tokens, r.chunkSize)
	results := make([][]corrector.MatchResult, len(chunks))
	workers := min(r.workers, max(len(chunks), 1))
	accs := make([]*corrector.Accumulator, workers)

	next := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(next)
		for i := range chunks {
			select {
			case next <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		acc := corrector.NewAccumulator()
		accs[w] = acc
		g.Go(func() error {
			for i := range next {
				res, err := r.classifyChunk(gctx, chunks[i], acc)
				if err != nil {
					return err
				}
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	rep := &Report{
		Results:  make([]corrector.MatchResult, 0, len(tokens)),
		Outcomes: make(map[corrector.Outcome]int),
		Learned:  corrector.NewAccumulator(),
	}
	for _, acc := range accs {
		rep.Learned.Merge(acc)
	}
	for _, res := range results {
		rep.Results = append(rep.Results, res...)
	}
	for i, tok := range tokens {
		rep.add(tok, rep.Results[i])
	}

	if r.metrics != nil {
		for o, n := range rep.Outcomes {
			r.metrics.RecordOutcome(ctx, o.String(), int64(n))
		}
		r.metrics.RecordLearning(ctx, rep.Learned.Total(), rep.Learned.Inserted())
	}
	r.log.Info("batch classified",
		"tokens", len(tokens), "chunks", len(chunks), "workers", workers,
		"corrections", rep.Outcomes[corrector.Correction], "failed", rep.Outcomes[corrector.Failed])
	return rep, nil
}

func (r *Runner) classifyChunk(ctx context.Context, chunk []cabinet.TokenRecord, acc *corrector.Accumulator) ([]corrector.MatchResult, error) {
	start := time.Now()
	out := make([]corrector.MatchResult, len(chunk))
	for i, tok := range chunk {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = r.sc.Classify(corrector.Token{Word: tok.Word, Titlecase: tok.Titlecase}, acc)
	}
	if r.metrics != nil {
		r.metrics.RecordChunk(ctx, time.Since(start))
	}
	r.log.Debug("chunk classified", "tokens", len(chunk), "elapsed", time.Since(start))
	return out, nil
}

// add files one classified token under its output category. A token whose
// accepted spelling differs from it, even only by regularization, becomes a
// rule.
func (rep *Report) add(tok cabinet.TokenRecord, m corrector.MatchResult) {
	rep.Outcomes[m.Outcome]++
	count := strconv.Itoa(tok.Count)
	switch m.Outcome {
	case corrector.Failed:
		rep.Failed = append(rep.Failed, tok.Line)
	case corrector.TailFragment:
		rep.Tails = append(rep.Tails, tok.Word+"\t"+m.Word+"\t"+count)
	case corrector.Unchanged:
		if m.Word != tok.Word {
			rep.Rules = append(rep.Rules, tok.Word+"\t"+m.Word+"\t"+count)
			return
		}
		lower := strings.ToLower(tok.Word)
		if strings.HasSuffix(lower, "eth") || strings.HasSuffix(lower, "est") {
			rep.AddToDictionary = append(rep.AddToDictionary, lower+"\t"+count+"\t0")
		}
	case corrector.Correction:
		rep.Rules = append(rep.Rules, tok.Word+"\t"+m.Word+"\t"+count)
	}
}
