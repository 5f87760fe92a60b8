package dockey

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"github.com/rcliao/paperdesk/internal/model"
)

const hashBytes = 8192 // First 8KB for content hash

// ContentHash keys documents by a hash of their leading bytes, so renamed or
// re-selected copies of a file share view state. When content cannot be read
// it falls back to the structural key.
type ContentHash struct {
	Fallback Resolver
}

// Resolve returns the content key of ref.
func (c ContentHash) Resolve(ref model.DocumentRef) string {
	var rc io.ReadCloser
	var err error
	switch r := ref.(type) {
	case model.PathRef:
		rc, err = os.Open(string(r))
	case model.FileRef:
		rc, err = openFileRef(r)
	case *model.FileRef:
		if r != nil {
			rc, err = openFileRef(*r)
		} else {
			err = errNoContent
		}
	default:
		err = errNoContent
	}
	if err == nil {
		var sum string
		sum, err = hashReader(rc)
		rc.Close()
		if err == nil {
			return hashPrefix + sum
		}
	}
	return c.fallback().Resolve(ref)
}

func (c ContentHash) fallback() Resolver {
	if c.Fallback != nil {
		return c.Fallback
	}
	return Structural{}
}

var errNoContent = errors.New("reference has no readable content")

func openFileRef(f model.FileRef) (io.ReadCloser, error) {
	if f.Open == nil {
		return nil, errNoContent
	}
	return f.Open()
}

// HashFile generates the content hash used by ContentHash for a path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hashReader(f)
}

func hashReader(r io.Reader) (string, error) {
	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}
