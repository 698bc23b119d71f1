// ABOUTME: In-memory blob store for tests
// ABOUTME: Supports per-key delete-failure injection for best-effort delete paths

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore is an in-memory Store implementation for tests.
type MemoryStore struct {
	mu          sync.Mutex
	objects     map[string]memoryObject
	failDeletes map[string]bool
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:     make(map[string]memoryObject),
		failDeletes: make(map[string]bool),
	}
}

// FailDelete makes subsequent Delete calls for key return an error.
func (m *MemoryStore) FailDelete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDeletes[key] = true
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Has reports whether an object exists under key.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Put stores an object under key.
func (m *MemoryStore) Put(_ context.Context, key, contentType string, _ int64, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

// Get retrieves an object and its content type.
func (m *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

// Delete removes an object, or fails if the key was marked with FailDelete.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDeletes[key] {
		return fmt.Errorf("simulated delete failure for %q", key)
	}
	delete(m.objects, key)
	return nil
}
