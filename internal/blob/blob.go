// ABOUTME: Blob store interface for attachment content
// ABOUTME: Implemented by S3Store (R2 / any S3 endpoint) and MemoryStore (tests)

package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a requested object does not exist
var ErrNotFound = errors.New("object not found")

// Store defines the interface for attachment blob storage
type Store interface {
	// Put stores an object under key. size must match the body length.
	Put(ctx context.Context, key, contentType string, size int64, body io.Reader) error

	// Get retrieves an object. The caller must close the returned reader.
	// Returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
