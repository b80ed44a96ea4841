package config

import (
	"os"
	"strconv"
)

// ApplyEnv overrides cfg from the environment. Unset or unparsable
// variables leave the current value.
func ApplyEnv(cfg *Config) {
	cfg.Paths.Dictionary = GetEnv("DICTIONARY_PATH", cfg.Paths.Dictionary)
	cfg.Paths.Matrix = GetEnv("OCRMATCH_MATRIX", cfg.Paths.Matrix)
	cfg.Paths.Gazetteer = GetEnv("OCRMATCH_GAZETTEER", cfg.Paths.Gazetteer)
	cfg.Paths.Archaic = GetEnv("OCRMATCH_ARCHAIC", cfg.Paths.Archaic)
	cfg.Paths.OutputDir = GetEnv("OCRMATCH_OUTPUT_DIR", cfg.Paths.OutputDir)

	cfg.Matcher.RecallLimit = GetEnvInt("OCRMATCH_RECALL_LIMIT", cfg.Matcher.RecallLimit)
	cfg.Matcher.DiceThreshold = GetEnvFloat("OCRMATCH_DICE_THRESHOLD", cfg.Matcher.DiceThreshold)
	cfg.Matcher.SplitSearchLimit = GetEnvInt("OCRMATCH_SPLIT_SEARCH_LIMIT", cfg.Matcher.SplitSearchLimit)

	cfg.Batch.ChunkSize = GetEnvInt("OCRMATCH_CHUNK_SIZE", cfg.Batch.ChunkSize)
	cfg.Batch.Workers = GetEnvInt("OCRMATCH_WORKERS", cfg.Batch.Workers)

	cfg.Redis.Addr = GetEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.Server.ListenAddr = GetEnv("HTTP_ADDR", cfg.Server.ListenAddr)
	cfg.Server.LogLevel = GetEnv("OCRMATCH_LOG_LEVEL", cfg.Server.LogLevel)
	cfg.Server.LogFormat = GetEnv("OCRMATCH_LOG_FORMAT", cfg.Server.LogFormat)
}

// GetEnv gets environment variable with default
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets integer environment variable with default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets float environment variable with default
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
