package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ocrmatch/internal/app"
	"ocrmatch/internal/batch"
	"ocrmatch/internal/cabinet"
	"ocrmatch/internal/config"
	"ocrmatch/internal/corrector"
	"ocrmatch/internal/observe"
)

// runFiles classifies each token file in turn, appends its categorized lines
// to the output directory, and finally writes the learned matrix and
// insertion report. The report is also printed to out.
func runFiles(ctx context.Context, eng *app.Engine, cfg *config.Config, m *observe.Metrics, paths []string, out io.Writer) error {
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	runner := batch.NewRunner(eng.Corrector,
		batch.WithChunkSize(cfg.Batch.ChunkSize),
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithMetrics(m),
	)
	learned := corrector.NewAccumulator()
	for _, path := range paths {
		tokens, err := cabinet.ReadTokens(path, cfg.Matcher.TitlecaseOdds)
		if err != nil {
			return err
		}
		rep, err := runner.Run(ctx, tokens)
		if err != nil {
			return err
		}
		if err := batch.WriteOutputs(cfg.Paths.OutputDir, rep); err != nil {
			return err
		}
		learned.Merge(rep.Learned)
		slog.Info("token file done", "path", path, "tokens", len(tokens),
			"rules", len(rep.Rules), "tails", len(rep.Tails), "failed", len(rep.Failed))
	}

	if _, err := batch.WriteLearning(cfg.Paths.OutputDir, eng.Prior, learned); err != nil {
		return err
	}
	report := learned.InsertionReport()
	if err := eng.Patterns.Add(ctx, report); err != nil {
		slog.Warn("could not store insertion patterns", "err", err)
	}
	for _, p := range report {
		fmt.Fprintf(out, "%s: %d\n", p.Pattern, p.Count)
	}
	return nil
}
