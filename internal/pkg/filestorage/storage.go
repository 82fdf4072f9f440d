package filestorage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyFile is returned when an upload has no content
var ErrEmptyFile = errors.New("empty file")

// StoredObject describes an object after it has been written to storage
type StoredObject struct {
	URL  string // public URL clients can fetch
	Key  string // backend-specific key accepted by Delete
	Size int64  // bytes written
}

// FileStorage stores uploaded objects and hands back a public URL
type FileStorage interface {
	// Save writes r under folder. filename is only used for its extension.
	Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredObject, error)

	// Delete removes an object by the Key returned from Save
	Delete(ctx context.Context, key string) error
}

// uniqueName returns a collision-free object name keeping the original extension
func uniqueName(filename string) string {
	return uuid.New().String() + strings.ToLower(path.Ext(filename))
}

// cleanFolder strips separators and parent references from a folder name
func cleanFolder(folder string) string {
	folder = path.Clean("/" + strings.ReplaceAll(folder, "\\", "/"))
	return strings.Trim(folder, "/")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
