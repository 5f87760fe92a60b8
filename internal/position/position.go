// Package position remembers the last page read in each document.
package position

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rcliao/paperdesk/internal/logging"
	"github.com/rcliao/paperdesk/internal/store"
)

// StorageKey is the store record owned by Memory.
const StorageKey = "paperdesk.page-memory"

// Entry stores position for a single document
type Entry struct {
	Page      int    `json:"page"`
	UpdatedAt string `json:"updatedAt"`
}

// KeyedEntry pairs an Entry with its DocumentKey.
type KeyedEntry struct {
	Key string `json:"key"`
	Entry
}

// Memory manages persistent reading positions
type Memory struct {
	store store.Store
	log   *log.Logger
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

// New loads page memory from s, starting empty when the record is unusable.
func New(ctx context.Context, s store.Store, logger *log.Logger) *Memory {
	m := &Memory{
		store:   s,
		log:     logging.OrDiscard(logger).With("component", "position"),
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	if err := m.load(ctx); err != nil {
		// Non-fatal - start with empty state
		m.log.Warn("discard page memory", "err", err)
		m.entries = make(map[string]Entry)
	}
	return m
}

func (m *Memory) load(ctx context.Context) error {
	raw, err := m.store.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var blob map[string]Entry
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return err
	}
	for k, e := range blob {
		if e.Page >= 1 {
			m.entries[k] = e
		}
	}
	return nil
}

// Get returns the saved page for key, or false if not found
func (m *Memory) Get(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e.Page, ok
}

// Set saves page for key. Pages below 1 and unchanged pages are ignored.
func (m *Memory) Set(ctx context.Context, key string, page int) {
	if key == "" || page < 1 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && e.Page == page {
		return
	}
	m.entries[key] = Entry{Page: page, UpdatedAt: m.now().UTC().Format(time.RFC3339)}
	m.persist(ctx)
}

// Remove forgets the saved page for key
func (m *Memory) Remove(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	m.persist(ctx)
}

// Entries returns all saved positions ordered by key.
func (m *Memory) Entries() []KeyedEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]KeyedEntry, 0, len(m.entries))
	for k, e := range m.entries {
		out = append(out, KeyedEntry{Key: k, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (m *Memory) persist(ctx context.Context) {
	b, err := json.Marshal(m.entries)
	if err != nil {
		m.log.Error("encode page memory", "err", err)
		return
	}
	if err := m.store.Set(ctx, StorageKey, string(b)); err != nil {
		m.log.Warn("write page memory", "err", err)
	}
}
