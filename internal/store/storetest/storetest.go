// Package storetest provides store.Store doubles for tests.
package storetest

import (
	"context"
	"errors"
	"sync"

	"github.com/rcliao/paperdesk/internal/store"
)

// ErrInjected is returned by a Recorder whose writes are set to fail.
var ErrInjected = errors.New("injected store failure")

// Recorder wraps an in-memory store and counts writes per key. Setting
// FailWrites or FailReads makes the corresponding calls return ErrInjected.
type Recorder struct {
	store.Store

	mu         sync.Mutex
	sets       map[string]int
	removes    map[string]int
	FailWrites bool
	FailReads  bool
}

// New returns a Recorder over a fresh memory store.
func New() *Recorder {
	return &Recorder{
		Store:   store.NewMemoryStore(),
		sets:    make(map[string]int),
		removes: make(map[string]int),
	}
}

func (r *Recorder) Get(ctx context.Context, key string) (string, error) {
	if r.FailReads {
		return "", ErrInjected
	}
	return r.Store.Get(ctx, key)
}

func (r *Recorder) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.sets[key]++
	r.mu.Unlock()
	if r.FailWrites {
		return ErrInjected
	}
	return r.Store.Set(ctx, key, value)
}

func (r *Recorder) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	r.removes[key]++
	r.mu.Unlock()
	if r.FailWrites {
		return ErrInjected
	}
	return r.Store.Remove(ctx, key)
}

// Sets reports how many times Set was called for key, failed calls included.
func (r *Recorder) Sets(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sets[key]
}

// Removes reports how many times Remove was called for key.
func (r *Recorder) Removes(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removes[key]
}

// Put seeds key with value directly, bypassing the counters.
func (r *Recorder) Put(key, value string) {
	r.Store.Set(context.Background(), key, value)
}
