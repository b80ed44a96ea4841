// Package config holds the YAML configuration schema of the matcher and its
// loader. Every field has a working default, so an empty file is valid.
package config

import (
	"ocrmatch/internal/corrector"
	"ocrmatch/pkg/options"
)

// Config is the root configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Matcher MatcherConfig `yaml:"matcher"`
	Batch   BatchConfig   `yaml:"batch"`
	Redis   RedisConfig   `yaml:"redis"`
	Server  ServerConfig  `yaml:"server"`
}

// PathsConfig locates the input and output files of a run.
type PathsConfig struct {
	// Dictionary is the main dictionary, word\tcount\ttitleodds, most
	// frequent first.
	Dictionary string `yaml:"dictionary"`

	// Gazetteer and Archaic are extra precision word lists.
	Gazetteer string `yaml:"gazetteer"`
	Archaic   string `yaml:"archaic"`

	// Matrix is the prior substitution count table.
	Matrix string `yaml:"matrix"`

	// OutputDir receives the categorized token files, the updated matrix and
	// the insertion report.
	OutputDir string `yaml:"output_dir"`
}

// MatcherConfig tunes candidate retrieval and acceptance.
type MatcherConfig struct {
	RecallLimit      int     `yaml:"recall_limit"`
	DiceThreshold    float64 `yaml:"dice_threshold"`
	SplitSearchLimit int     `yaml:"split_search_limit"`
	CutoffBase       float64 `yaml:"cutoff_base"`
	CutoffDivisor    float64 `yaml:"cutoff_divisor"`
	TitlecaseOdds    float64 `yaml:"titlecase_odds"`
}

// BatchConfig controls how token files are processed.
type BatchConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	// Workers is the number of concurrent chunk workers; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// RedisConfig points at the store for custom words and the running
// insertion-pattern report. Leave Addr empty to run without redis.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	WordsKey   string `yaml:"words_key"`
	PatternKey string `yaml:"pattern_key"`
}

// ServerConfig holds the API server and logging settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// Default returns the configuration the matcher was tuned with.
func Default() *Config {
	cc := corrector.DefaultConfig()
	return &Config{
		Paths: PathsConfig{
			Dictionary: "MainDictionary.txt",
			Matrix:     "CharMatrix.txt",
			OutputDir:  ".",
		},
		Matcher: MatcherConfig{
			RecallLimit:      options.DefaultOptions.RecallLimit,
			DiceThreshold:    options.DefaultOptions.DiceThreshold,
			SplitSearchLimit: options.DefaultOptions.SplitSearchLimit,
			CutoffBase:       cc.CutoffBase,
			CutoffDivisor:    cc.CutoffDivisor,
			TitlecaseOdds:    cc.TitlecaseOdds,
		},
		Batch: BatchConfig{ChunkSize: 50000},
		Redis: RedisConfig{
			WordsKey:   "custom_dict",
			PatternKey: "insertion_patterns",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			LogLevel:   "info",
			LogFormat:  "text",
		},
	}
}

// CorrectorConfig returns the decision thresholds with the configured
// overrides applied.
func (m MatcherConfig) CorrectorConfig() corrector.CorrectorConfig {
	cc := corrector.DefaultConfig()
	cc.CutoffBase = m.CutoffBase
	cc.CutoffDivisor = m.CutoffDivisor
	cc.TitlecaseOdds = m.TitlecaseOdds
	return cc
}

// IndexOptions returns the retrieval settings as engine options.
func (m MatcherConfig) IndexOptions() []options.Options {
	return []options.Options{
		options.WithRecallLimit(m.RecallLimit),
		options.WithDiceThreshold(m.DiceThreshold),
		options.WithSplitSearchLimit(m.SplitSearchLimit),
	}
}
