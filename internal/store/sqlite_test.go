package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Set(ctx, "settings", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "settings")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("expected stored value, got %q", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, "k", "v1")
	s.Set(ctx, "k", "v2")

	got, _ := s.Get(ctx, "k")
	if got != "v2" {
		t.Errorf("expected 'v2', got %q", got)
	}

	keys, _ := s.Keys(ctx)
	if len(keys) != 1 {
		t.Errorf("expected 1 key after overwrite, got %d", len(keys))
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, "k", "v")
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing a missing key is fine
	if err := s.Remove(ctx, "k"); err != nil {
		t.Errorf("remove missing: %v", err)
	}
}

func TestKeysSorted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Set(ctx, "b", "2")
	s.Set(ctx, "a", "1")
	s.Set(ctx, "c", "3")

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "persist.db")

	s1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s1.Set(ctx, "zoom", `{"path:/a.pdf":{"scale":1.5}}`)
	s1.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "zoom")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != `{"path:/a.pdf":{"scale":1.5}}` {
		t.Errorf("unexpected value after reopen: %q", got)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	src.Set(ctx, "a", "1")
	src.Set(ctx, "b", "2")

	records, err := Export(ctx, src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].UpdatedAt == "" {
		t.Error("expected sqlite export to carry updated_at")
	}

	dst := NewMemoryStore()
	n, err := Import(ctx, dst, records)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	if v, _ := dst.Get(ctx, "b"); v != "2" {
		t.Errorf("expected imported value '2', got %q", v)
	}
}

func TestCollectStats(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stats.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	s.Set(ctx, "settings", "12345")

	st, err := CollectStats(ctx, s, BackendSQLite, path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalKeys != 1 {
		t.Errorf("expected 1 key, got %d", st.TotalKeys)
	}
	if st.Keys[0].ValueBytes != 5 {
		t.Errorf("expected 5 value bytes, got %d", st.Keys[0].ValueBytes)
	}
	if st.DBSizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
}
