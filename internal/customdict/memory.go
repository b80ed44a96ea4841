package customdict

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MemoryClient is an in-process Client for running without redis. Nothing
// survives a restart.
type MemoryClient struct {
	mu     sync.Mutex
	sets   map[string]map[string]struct{}
	hashes map[string]map[string]int64
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		sets:   make(map[string]map[string]struct{}),
		hashes: make(map[string]map[string]int64),
	}
}

func (m *MemoryClient) SAdd(_ context.Context, key string, members ...interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	if set == nil {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	var added int64
	for _, v := range members {
		s := fmt.Sprint(v)
		if _, ok := set[s]; !ok {
			set[s] = struct{}{}
			added++
		}
	}
	return redis.NewIntResult(added, nil)
}

func (m *MemoryClient) SRem(_ context.Context, key string, members ...interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, v := range members {
		s := fmt.Sprint(v)
		if _, ok := m.sets[key][s]; ok {
			delete(m.sets[key], s)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (m *MemoryClient) SMembers(_ context.Context, key string) *redis.StringSliceCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sets[key]))
	for s := range m.sets[key] {
		out = append(out, s)
	}
	sort.Strings(out)
	return redis.NewStringSliceResult(out, nil)
}

func (m *MemoryClient) HIncrBy(_ context.Context, key, field string, incr int64) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hashes[key]
	if h == nil {
		h = make(map[string]int64)
		m.hashes[key] = h
	}
	h[field] += incr
	return redis.NewIntResult(h[field], nil)
}

func (m *MemoryClient) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.hashes[key]))
	for f, n := range m.hashes[key] {
		out[f] = strconv.FormatInt(n, 10)
	}
	return redis.NewMapStringStringResult(out, nil)
}
