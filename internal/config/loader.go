package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path yields the defaults plus
// environment.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		ApplyEnv(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults and
// validates it. The environment is not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Paths.Dictionary == "" {
		errs = append(errs, errors.New("paths.dictionary is required"))
	}

	m := cfg.Matcher
	if m.RecallLimit <= 0 {
		errs = append(errs, fmt.Errorf("matcher.recall_limit %d must be positive", m.RecallLimit))
	}
	if m.DiceThreshold < 0 || m.DiceThreshold >= 1 {
		errs = append(errs, fmt.Errorf("matcher.dice_threshold %.2f is out of range [0, 1)", m.DiceThreshold))
	}
	if m.SplitSearchLimit < 0 {
		errs = append(errs, fmt.Errorf("matcher.split_search_limit %d must not be negative", m.SplitSearchLimit))
	}
	if m.CutoffDivisor <= 0 {
		errs = append(errs, fmt.Errorf("matcher.cutoff_divisor %.2f must be positive", m.CutoffDivisor))
	}
	if m.TitlecaseOdds <= 0 {
		errs = append(errs, fmt.Errorf("matcher.titlecase_odds %.2f must be positive", m.TitlecaseOdds))
	}

	if cfg.Batch.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("batch.chunk_size %d must be positive", cfg.Batch.ChunkSize))
	}
	if cfg.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers %d must not be negative", cfg.Batch.Workers))
	}

	if lvl := strings.ToLower(cfg.Server.LogLevel); lvl != "" && !slices.Contains(validLogLevels, lvl) {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: %s", cfg.Server.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if f := strings.ToLower(cfg.Server.LogFormat); f != "" && f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("server.log_format %q is invalid; valid values: text, json", cfg.Server.LogFormat))
	}

	return errors.Join(errs...)
}
