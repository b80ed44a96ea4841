package customdict

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"ocrmatch/internal/corrector"
)

const defaultPatternKey = "insertion_patterns"

// PatternStore accumulates insertion-pattern counts across runs in a redis
// hash, one field per pattern.
type PatternStore struct {
	client Client
	key    string
}

// NewPatternStore creates a PatternStore in the hash key
// ("insertion_patterns" when empty).
func NewPatternStore(client Client, key string) *PatternStore {
	if key == "" {
		key = defaultPatternKey
	}
	return &PatternStore{client: client, key: key}
}

// Add increments the stored count of every pattern in report.
func (ps *PatternStore) Add(ctx context.Context, report []corrector.PatternCount) error {
	for _, p := range report {
		if p.Count == 0 {
			continue
		}
		if err := ps.client.HIncrBy(ctx, ps.key, p.Pattern, p.Count).Err(); err != nil {
			return fmt.Errorf("customdict: increment pattern %q: %w", p.Pattern, err)
		}
	}
	return nil
}

// Report returns the stored counts, most frequent first.
func (ps *PatternStore) Report(ctx context.Context) ([]corrector.PatternCount, error) {
	fields, err := ps.client.HGetAll(ctx, ps.key).Result()
	if err != nil {
		return nil, fmt.Errorf("customdict: read patterns: %w", err)
	}
	out := make([]corrector.PatternCount, 0, len(fields))
	for pattern, v := range fields {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("customdict: pattern %q has count %q: %w", pattern, v, err)
		}
		out = append(out, corrector.PatternCount{Pattern: pattern, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Count > out[j].Count
	})
	return out, nil
}
