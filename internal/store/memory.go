package store

import (
	"context"
	"sort"

	"github.com/patrickmn/go-cache"
)

// MemoryStore implements Store in process memory. Nothing survives a restart.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore creates an empty in-memory store whose entries never expire.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	if x, found := m.c.Get(key); found {
		return x.(string), nil
	}
	return "", ErrNotFound
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	items := m.c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) Close() error {
	m.c.Flush()
	return nil
}
