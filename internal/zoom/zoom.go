// Package zoom remembers the last zoom scale used for each document.
package zoom

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rcliao/paperdesk/internal/logging"
	"github.com/rcliao/paperdesk/internal/store"
)

// StorageKey is the store record owned by Memory.
const StorageKey = "paperdesk.zoom-memory"

// Scales closer than epsilon after rounding count as unchanged.
const epsilon = 0.001

// Entry is the remembered scale of one document.
type Entry struct {
	Scale     float64 `json:"scale"`
	UpdatedAt string  `json:"updatedAt"`
}

// KeyedEntry pairs an Entry with its DocumentKey.
type KeyedEntry struct {
	Key string `json:"key"`
	Entry
}

// Memory maps DocumentKeys to their last zoom scale. Every mutation is
// written through to the store before returning.
type Memory struct {
	store store.Store
	log   *log.Logger
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

// New loads zoom memory from s. Missing or malformed data yields an empty map.
func New(ctx context.Context, s store.Store, logger *log.Logger) *Memory {
	m := &Memory{
		store:   s,
		log:     logging.OrDiscard(logger).With("component", "zoom"),
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	m.load(ctx)
	return m
}

func (m *Memory) load(ctx context.Context) {
	raw, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log.Warn("read zoom memory", "err", err)
		}
		return
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &blob); err != nil || blob == nil {
		m.log.Warn("discard malformed zoom memory", "err", err)
		return
	}
	for k, v := range blob {
		var e Entry
		if err := json.Unmarshal(v, &e); err != nil {
			m.log.Debug("skip malformed zoom entry", "key", k, "err", err)
			continue
		}
		m.entries[k] = e
	}
}

// Get returns the remembered scale for key rounded to two decimals. It
// reports false when key is empty, absent, or holds an invalid scale.
func (m *Memory) Get(key string) (float64, bool) {
	if key == "" {
		return 0, false
	}
	m.mu.Lock()
	e, ok := m.entries[key]
	m.mu.Unlock()
	if !ok || !validScale(e.Scale) {
		return 0, false
	}
	return round2(e.Scale), true
}

// Set remembers scale for key. Empty keys, invalid scales and changes below
// rounding precision are ignored.
func (m *Memory) Set(ctx context.Context, key string, scale float64) {
	if key == "" || !validScale(scale) {
		return
	}
	scale = round2(scale)
	if scale <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && math.Abs(round2(e.Scale)-scale) < epsilon {
		return
	}
	m.entries[key] = Entry{Scale: scale, UpdatedAt: m.now().UTC().Format(time.RFC3339)}
	m.persist(ctx)
}

// Remove forgets key. Unknown keys are ignored.
func (m *Memory) Remove(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return
	}
	delete(m.entries, key)
	m.persist(ctx)
}

// Entries returns all remembered scales ordered by key.
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

// persist writes the whole map. Caller holds mu. Failures keep the in-memory
// state and are only logged.
func (m *Memory) persist(ctx context.Context) {
	b, err := json.Marshal(m.entries)
	if err != nil {
		m.log.Error("encode zoom memory", "err", err)
		return
	}
	if err := m.store.Set(ctx, StorageKey, string(b)); err != nil {
		m.log.Warn("write zoom memory", "err", err)
	}
}

func validScale(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s > 0
}

func round2(s float64) float64 {
	return math.Round(s*100) / 100
}
