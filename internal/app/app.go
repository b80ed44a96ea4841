// Package app wires the matcher together from a Config: it loads the
// dictionaries and count table, merges custom words from redis, and builds
// the shared SpellCorrector used by both commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"ocrmatch/internal/cabinet"
	"ocrmatch/internal/config"
	"ocrmatch/internal/corrector"
	"ocrmatch/internal/customdict"
)

// Engine is everything a run needs, built once.
type Engine struct {
	Corrector *corrector.SpellCorrector
	Lexicon   *corrector.Lexicon
	Prior     *corrector.CountTable
	Words     *customdict.CustomDict
	Patterns  *customdict.PatternStore
}

// NewClient connects to the configured redis, or returns an in-memory
// client when no address is set.
func NewClient(cfg config.RedisConfig) customdict.Client {
	if cfg.Addr == "" {
		return customdict.NewMemoryClient()
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Build loads the files named in cfg and assembles an Engine. A missing
// count table is treated as empty so a first run can bootstrap one.
func Build(ctx context.Context, cfg *config.Config, client customdict.Client, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	m := cfg.Matcher

	recall, precision, err := cabinet.ReadMainDictionary(cfg.Paths.Dictionary, m.RecallLimit, m.TitlecaseOdds)
	if err != nil {
		return nil, fmt.Errorf("app: load dictionary: %w", err)
	}
	for _, path := range []string{cfg.Paths.Gazetteer, cfg.Paths.Archaic} {
		if path == "" {
			continue
		}
		words, err := cabinet.ReadWordList(path)
		if err != nil {
			return nil, fmt.Errorf("app: load word list: %w", err)
		}
		precision = append(precision, words...)
	}
	lex := corrector.NewLexicon(recall, precision)

	eng := &Engine{
		Lexicon:  lex,
		Words:    customdict.New(client, cfg.Redis.WordsKey),
		Patterns: customdict.NewPatternStore(client, cfg.Redis.PatternKey),
	}
	n, err := eng.Words.LoadInto(ctx, lex)
	if err != nil {
		return nil, fmt.Errorf("app: load custom words: %w", err)
	}

	eng.Prior, err = cabinet.ReadCountTable(cfg.Paths.Matrix)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn("count table not found, starting from an empty one", "path", cfg.Paths.Matrix)
		eng.Prior = new(corrector.CountTable)
	case err != nil:
		return nil, fmt.Errorf("app: load count table: %w", err)
	}

	eng.Corrector = corrector.NewSpellCorrector(m.CorrectorConfig(), lex, corrector.BuildMatrix(eng.Prior), m.IndexOptions()...).
		WithLogger(log)

	log.Info("matcher ready",
		"recall", len(recall), "precision", lex.Size(), "custom_words", n, "dictionary", cfg.Paths.Dictionary)
	return eng, nil
}
