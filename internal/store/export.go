package store

import (
	"context"
	"errors"
	"fmt"
)

type exporter interface {
	ExportAll(ctx context.Context) ([]Record, error)
}

// Export returns every record held by s ordered by key. Backends that track
// modification times include them.
func Export(ctx context.Context, s Store) ([]Record, error) {
	if e, ok := s.(exporter); ok {
		return e.ExportAll(ctx)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	records := make([]Record, 0, len(keys))
	for _, k := range keys {
		v, err := s.Get(ctx, k)
		if errors.Is(err, ErrNotFound) {
			// removed between Keys and Get
			continue
		}
		if err != nil {
			return records, err
		}
		records = append(records, Record{Key: k, Value: v})
	}
	return records, nil
}

// Import writes records into s, replacing existing values for the same keys.
func Import(ctx context.Context, s Store, records []Record) (int, error) {
	imported := 0
	for _, r := range records {
		if r.Key == "" {
			continue
		}
		if err := s.Set(ctx, r.Key, r.Value); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
