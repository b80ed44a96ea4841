package customdict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"ocrmatch/internal/corrector"
)

const defaultKey = "custom_dict"

// ErrEmptyWord is returned when adding a blank word.
var ErrEmptyWord = errors.New("customdict: empty word")

// Client is the part of the redis API the stores use. *redis.Client
// satisfies it.
type Client interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// CustomDict keeps words that belong in the precision lexicon but not in the
// dictionary files: names, terms of art, words a reviewer confirmed.
type CustomDict struct {
	client Client
	key    string
}

// New creates a CustomDict stored in the redis set key ("custom_dict" when empty).
func New(client Client, key string) *CustomDict {
	if key == "" {
		key = defaultKey
	}
	return &CustomDict{client: client, key: key}
}

// Add inserts a word into the custom dictionary and reports whether it was
// new.
func (cd *CustomDict) Add(ctx context.Context, word string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, ErrEmptyWord
	}
	n, err := cd.client.SAdd(ctx, cd.key, word).Result()
	if err != nil {
		return false, fmt.Errorf("customdict: add %q: %w", word, err)
	}
	return n > 0, nil
}

// Remove deletes a word from the custom dictionary and reports whether it
// was there.
func (cd *CustomDict) Remove(ctx context.Context, word string) (bool, error) {
	n, err := cd.client.SRem(ctx, cd.key, word).Result()
	if err != nil {
		return false, fmt.Errorf("customdict: remove %q: %w", word, err)
	}
	return n > 0, nil
}

// All returns all words stored in the custom dictionary.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	words, err := cd.client.SMembers(ctx, cd.key).Result()
	if err != nil {
		return nil, fmt.Errorf("customdict: list: %w", err)
	}
	return words, nil
}

// LoadInto adds every stored word to the precision lexicon of lex and
// returns how many there were.
func (cd *CustomDict) LoadInto(ctx context.Context, lex *corrector.Lexicon) (int, error) {
	words, err := cd.All(ctx)
	if err != nil {
		return 0, err
	}
	lex.Add(words...)
	return len(words), nil
}
