package store

import (
	"context"
	"os"
)

// Stats holds store statistics.
type Stats struct {
	Backend     string     `json:"backend"`
	DBPath      string     `json:"db_path,omitempty"`
	DBSizeBytes int64      `json:"db_size_bytes,omitempty"`
	TotalKeys   int        `json:"total_keys"`
	Keys        []KeyStats `json:"keys"`
}

// KeyStats holds per-record size information.
type KeyStats struct {
	Key        string `json:"key"`
	ValueBytes int    `json:"value_bytes"`
}

// CollectStats gathers statistics from any Store. dbPath is only used to
// report the file size of file-backed stores and may be empty.
func CollectStats(ctx context.Context, s Store, backend, dbPath string) (*Stats, error) {
	st := &Stats{Backend: backend, DBPath: dbPath}

	if dbPath != "" {
		if info, err := os.Stat(dbPath); err == nil {
			st.DBSizeBytes = info.Size()
		}
	}

	records, err := Export(ctx, s)
	if err != nil {
		return st, err
	}
	for _, r := range records {
		st.Keys = append(st.Keys, KeyStats{Key: r.Key, ValueBytes: len(r.Value)})
	}
	st.TotalKeys = len(records)

	return st, nil
}
