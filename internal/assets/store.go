package assets

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/acme/voice-dialer/pkg/errors"
)

// Asset references one stored audio blob.
type Asset struct {
	Name        string
	ContentType string
	URL         string
}

// Store holds named, immutable audio blobs for the lifetime of the process.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, string, error)
}

type memoryEntry struct {
	contentType string
	data        []byte
}

// MemoryStore is an append-only in-process store. Assets accumulate without
// eviction; bounded retention is available through the redis backend.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Put stores data under name. Names are expected to be unique; a duplicate
// write replaces the previous blob atomically.
func (s *MemoryStore) Put(_ context.Context, name, contentType string, data []byte) error {
	if name == "" {
		return fmt.Errorf("asset store: %w: empty name", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = memoryEntry{contentType: contentType, data: data}
	return nil
}

// Get returns the stored bytes and content type for name.
func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, string, error) {
	s.mu.RLock()
	entry, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("asset store: %q: %w", name, apperrors.ErrNotFound)
	}
	return entry.data, entry.contentType, nil
}

// Len reports the number of stored assets.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
