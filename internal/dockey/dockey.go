// Package dockey derives the stable identity string under which per-document
// view state is remembered.
//
// Keys are structural: a path reference is keyed by its exact path string and
// an ephemeral file by (name, size, modification time). Two different path
// strings naming the same file through a symlink get different keys. Content
// hashing is available through ContentHash when that matters more than cost.
package dockey

import (
	"strconv"

	"github.com/rcliao/paperdesk/internal/model"
)

const (
	pathPrefix = "path:"
	filePrefix = "file:"
	hashPrefix = "sha256:"
)

// Resolver computes the DocumentKey of a reference. Implementations never fail.
type Resolver interface {
	Resolve(ref model.DocumentRef) string
}

// Structural is the default Resolver. It performs no I/O.
type Structural struct{}

// Resolve returns the structural key of ref, or "" for a nil reference.
func (Structural) Resolve(ref model.DocumentRef) string {
	switch r := ref.(type) {
	case model.PathRef:
		return pathPrefix + string(r)
	case model.FileRef:
		return fileKey(r)
	case *model.FileRef:
		if r != nil {
			return fileKey(*r)
		}
	}
	return ""
}

// Resolve is shorthand for Structural{}.Resolve.
func Resolve(ref model.DocumentRef) string {
	return Structural{}.Resolve(ref)
}

func fileKey(f model.FileRef) string {
	var mtime int64
	if !f.ModTime.IsZero() {
		mtime = f.ModTime.UnixMilli()
	}
	return filePrefix + f.Name + ":" + strconv.FormatInt(f.Size, 10) + ":" + strconv.FormatInt(mtime, 10)
}
