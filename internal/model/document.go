// Package model defines the core reader data types.
package model

import (
	"io"
	"path/filepath"
	"time"
)

// DocumentRef references a document either by filesystem path or by an
// ephemeral file handle. Implemented by PathRef and FileRef.
type DocumentRef interface {
	// DisplayName is the name shown on the document's tab.
	DisplayName() string
	isDocumentRef()
}

// PathRef references a document by its path string. The path is used as-is,
// without canonicalization.
type PathRef string

func (p PathRef) DisplayName() string { return filepath.Base(string(p)) }
func (PathRef) isDocumentRef() {}

// FileRef describes an ephemeral file handle, e.g. a drag and drop payload.
type FileRef struct {
	Name    string
	Size    int64
	ModTime time.Time

	// Open optionally exposes the file content. Only content hashing uses it.
	Open func() (io.ReadCloser, error) `json:"-"`
}

func (f FileRef) DisplayName() string { return f.Name }
func (FileRef) isDocumentRef() {}

// LibraryDocument is an entry in the imported document library.
type LibraryDocument struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Modified   time.Time `json:"modified"`
	ImportedAt time.Time `json:"importedAt"`
}
