// Package library manages the imported document collection: directory
// scans, file metadata, renames, folder watching and the persisted catalog.
package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rcliao/paperdesk/internal/model"
)

// DefaultPattern matches the documents the reader can open.
const DefaultPattern = "*.pdf"

// File is a document found by Scan.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ScanResult holds the files found under a directory and the per-file errors
// that were skipped.
type ScanResult struct {
	Files      []File   `json:"files"`
	TotalCount int      `json:"total_count"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
}

// ScanOptions configures Scan.
type ScanOptions struct {
	Recursive bool
	MaxDepth  int    // levels below dir when Recursive; 0 means unlimited
	Pattern   string // doublestar pattern matched against the lowercase base name
}

// Scan lists documents in dir. Only a missing or non-directory dir is an
// error; unreadable entries are counted in the result.
func Scan(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("directory does not exist: %s", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	maxDepth := 1
	if opts.Recursive {
		maxDepth = opts.MaxDepth
	}

	res := &ScanResult{Files: []File{}, Errors: []string{}}
	root := filepath.Clean(dir)
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		depth := depthOf(root, path)
		if d.IsDir() {
			if path != root && maxDepth > 0 && depth >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if maxDepth > 0 && depth > maxDepth {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, strings.ToLower(d.Name())); !ok {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to read metadata for %s: %v", path, err))
			return nil
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		res.Files = append(res.Files, File{Name: d.Name(), Path: path, Size: fi.Size()})
		return nil
	})

	sort.SliceStable(res.Files, func(i, j int) bool {
		return strings.ToLower(res.Files[i].Name) < strings.ToLower(res.Files[j].Name)
	})
	res.TotalCount = len(res.Files)
	return res, nil
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// FileMetadata describes a file on disk.
type FileMetadata struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified *int64 `json:"modified,omitempty"` // unix seconds

	ModTime time.Time `json:"-"`
}

// Metadata stats path.
func Metadata(path string) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file does not exist: %s", path)
		}
		return nil, fmt.Errorf("read file metadata: %w", err)
	}
	md := &FileMetadata{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}
	if mt := info.ModTime(); !mt.IsZero() {
		secs := mt.Unix()
		md.Modified = &secs
		md.ModTime = mt
	}
	return md, nil
}

// FileRef describes the file as an ephemeral handle, the way a drag and drop
// payload would.
func (m *FileMetadata) FileRef() model.FileRef {
	ref := model.FileRef{Name: m.Name, Size: m.Size, ModTime: m.ModTime}
	path := m.Path
	ref.Open = func() (io.ReadCloser, error) { return os.Open(path) }
	return ref
}

// Existence reports whether a path exists.
type Existence struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// VerifyExist checks each path in order.
func VerifyExist(paths []string) []Existence {
	out := make([]Existence, len(paths))
	for i, p := range paths {
		_, err := os.Stat(p)
		out[i] = Existence{Path: p, Exists: err == nil}
	}
	return out
}

// Rename renames the file at oldPath to newName within the same directory,
// keeping its extension. It returns the new path.
func Rename(oldPath, newName string) (string, error) {
	info, err := os.Stat(oldPath)
	if err != nil {
		return "", fmt.Errorf("file does not exist: %s", oldPath)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("path is not a file: %s", oldPath)
	}
	if newName == "" || strings.ContainsAny(newName, `/\`) {
		return "", fmt.Errorf("invalid file name %q", newName)
	}

	filename := newName
	if ext := filepath.Ext(oldPath); ext != "" {
		filename += ext
	}
	newPath := filepath.Join(filepath.Dir(oldPath), filename)

	if _, err := os.Stat(newPath); err == nil {
		return "", fmt.Errorf("a file named '%s' already exists in this location", filename)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("rename file: %w", err)
	}
	return newPath, nil
}
