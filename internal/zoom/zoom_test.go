package zoom

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/paperdesk/internal/store/storetest"
)

const key = "path:/papers/a.pdf"

func newTestMemory(t *testing.T) (*Memory, *storetest.Recorder) {
	t.Helper()
	rec := storetest.New()
	return New(context.Background(), rec, nil), rec
}

func TestSetRoundsAndSuppressesJitter(t *testing.T) {
	ctx := context.Background()
	m, rec := newTestMemory(t)

	m.Set(ctx, key, 1.23456)
	got, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, 1.23, got)
	assert.Equal(t, 1, rec.Sets(StorageKey))

	m.Set(ctx, key, 1.2305)
	got, _ = m.Get(key)
	assert.Equal(t, 1.23, got)
	assert.Equal(t, 1, rec.Sets(StorageKey), "sub-precision change must not write")

	m.Set(ctx, key, 1.5)
	got, _ = m.Get(key)
	assert.Equal(t, 1.5, got)
	assert.Equal(t, 2, rec.Sets(StorageKey))
}

func TestSetIgnoresInvalidInput(t *testing.T) {
	ctx := context.Background()
	m, rec := newTestMemory(t)

	m.Set(ctx, "", 1.5)
	m.Set(ctx, key, 0)
	m.Set(ctx, key, -2)
	m.Set(ctx, key, math.NaN())
	m.Set(ctx, key, math.Inf(1))
	m.Set(ctx, key, 0.001)

	_, ok := m.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, rec.Sets(StorageKey))
}

func TestGetMissingAndEmpty(t *testing.T) {
	m, _ := newTestMemory(t)

	_, ok := m.Get(key)
	assert.False(t, ok)
	_, ok = m.Get("")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m, rec := newTestMemory(t)

	m.Remove(ctx, key)
	assert.Equal(t, 0, rec.Sets(StorageKey), "removing an absent key must not write")

	m.Set(ctx, key, 2)
	m.Remove(ctx, key)
	_, ok := m.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 2, rec.Sets(StorageKey))
}

func TestWriteThroughAndReload(t *testing.T) {
	ctx := context.Background()
	m, rec := newTestMemory(t)

	m.Set(ctx, key, 1.75)
	m.Set(ctx, "file:b.pdf:10:0", 0.5)

	raw, err := rec.Get(ctx, StorageKey)
	require.NoError(t, err)

	var blob map[string]Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &blob))
	assert.Equal(t, 1.75, blob[key].Scale)
	assert.NotEmpty(t, blob[key].UpdatedAt)

	reloaded := New(ctx, rec, nil)
	got, ok := reloaded.Get("file:b.pdf:10:0")
	require.True(t, ok)
	assert.Equal(t, 0.5, got)
	assert.Len(t, reloaded.Entries(), 2)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{not json`,
		"array":          `[1,2,3]`,
		"number":         `42`,
		"null":           `null`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			rec := storetest.New()
			rec.Put(StorageKey, raw)

			m := New(context.Background(), rec, nil)
			assert.Empty(t, m.Entries())

			m.Set(context.Background(), key, 1.1)
			got, ok := m.Get(key)
			require.True(t, ok)
			assert.Equal(t, 1.1, got)
		})
	}
}

func TestLoadValidatesStoredScale(t *testing.T) {
	rec := storetest.New()
	rec.Put(StorageKey, `{
		"good": {"scale": 1.456, "updatedAt": "2024-01-01T00:00:00Z"},
		"zero": {"scale": 0},
		"negative": {"scale": -1},
		"wrong-type": {"scale": "big"}
	}`)

	m := New(context.Background(), rec, nil)

	got, ok := m.Get("good")
	require.True(t, ok)
	assert.Equal(t, 1.46, got)

	for _, k := range []string{"zero", "negative", "wrong-type"} {
		_, ok := m.Get(k)
		assert.False(t, ok, k)
	}
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	rec := storetest.New()
	rec.Put(StorageKey, `{"k":{"scale":2}}`)
	rec.FailReads = true

	m := New(context.Background(), rec, nil)
	assert.Empty(t, m.Entries())
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	rec := storetest.New()
	rec.FailWrites = true
	m := New(context.Background(), rec, nil)

	m.Set(context.Background(), key, 3)
	got, ok := m.Get(key)
	require.True(t, ok)
	assert.Equal(t, 3.0, got)
}
