package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rcliao/paperdesk/internal/logging"
	"github.com/rcliao/paperdesk/internal/model"
	"github.com/rcliao/paperdesk/internal/store"
)

// StorageKey is the store record owned by Catalog.
const StorageKey = "paperdesk.library"

// Catalog is the persisted list of imported documents, one entry per path.
type Catalog struct {
	store store.Store
	log   *log.Logger
	now   func() time.Time

	mu   sync.Mutex
	docs map[string]model.LibraryDocument
}

// NewCatalog loads the catalog from s. An unreadable record starts an empty
// library.
func NewCatalog(ctx context.Context, s store.Store, logger *log.Logger) *Catalog {
	c := &Catalog{
		store: s,
		log:   logging.OrDiscard(logger).With("component", "library"),
		now:   time.Now,
		docs:  make(map[string]model.LibraryDocument),
	}
	raw, err := s.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn("read library", "err", err)
		}
		return c
	}
	var docs []model.LibraryDocument
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		c.log.Warn("discard malformed library", "err", err)
		return c
	}
	for _, d := range docs {
		if d.Path != "" {
			c.docs[d.Path] = d
		}
	}
	return c
}

// Add imports the files at paths. Paths already in the catalog are refreshed
// from disk and keep their import time. It returns the added or refreshed
// documents.
func (c *Catalog) Add(ctx context.Context, paths ...string) ([]model.LibraryDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var added []model.LibraryDocument
	for _, p := range paths {
		md, err := Metadata(p)
		if err != nil {
			return added, err
		}
		doc := model.LibraryDocument{
			Path:       md.Path,
			Name:       md.Name,
			Size:       md.Size,
			Modified:   md.ModTime.UTC(),
			ImportedAt: c.now().UTC(),
		}
		if prev, ok := c.docs[doc.Path]; ok {
			doc.ImportedAt = prev.ImportedAt
		}
		c.docs[doc.Path] = doc
		added = append(added, doc)
	}
	if len(added) > 0 {
		if err := c.persist(ctx); err != nil {
			return added, err
		}
	}
	return added, nil
}

// AddScan imports every file of a scan result.
func (c *Catalog) AddScan(ctx context.Context, res *ScanResult) ([]model.LibraryDocument, error) {
	paths := make([]string, len(res.Files))
	for i, f := range res.Files {
		paths[i] = f.Path
	}
	return c.Add(ctx, paths...)
}

// Remove drops path from the catalog. The file itself is untouched.
func (c *Catalog) Remove(ctx context.Context, path string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[path]; !ok {
		return false, nil
	}
	delete(c.docs, path)
	return true, c.persist(ctx)
}

// Get returns the catalog entry for path.
func (c *Catalog) Get(path string) (model.LibraryDocument, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[path]
	return d, ok
}

// List returns all documents sorted by name, case-insensitively.
func (c *Catalog) List() []model.LibraryDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sorted()
}

// Prune removes entries whose files no longer exist and returns them.
func (c *Catalog) Prune(ctx context.Context) ([]model.LibraryDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	docs := c.sorted()
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	var pruned []model.LibraryDocument
	for i, e := range VerifyExist(paths) {
		if !e.Exists {
			delete(c.docs, e.Path)
			pruned = append(pruned, docs[i])
		}
	}
	if len(pruned) == 0 {
		return nil, nil
	}
	return pruned, c.persist(ctx)
}

// Rename renames a catalogued file on disk and moves its entry.
func (c *Catalog) Rename(ctx context.Context, oldPath, newName string) (string, error) {
	newPath, err := Rename(oldPath, newName)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if doc, ok := c.docs[oldPath]; ok {
		delete(c.docs, oldPath)
		doc.Path = newPath
		doc.Name = filepath.Base(newPath)
		c.docs[newPath] = doc
		if err := c.persist(ctx); err != nil {
			return newPath, err
		}
	}
	return newPath, nil
}

func (c *Catalog) sorted() []model.LibraryDocument {
	out := make([]model.LibraryDocument, 0, len(c.docs))
	for _, d := range c.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// persist writes the catalog. Caller holds mu.
func (c *Catalog) persist(ctx context.Context) error {
	b, err := json.Marshal(c.sorted())
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := c.store.Set(ctx, StorageKey, string(b)); err != nil {
		return fmt.Errorf("write library: %w", err)
	}
	return nil
}
