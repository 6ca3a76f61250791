// Package memory implements the blob store as an in-process map. Used in
// tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/imago-sys/occurrence-backend/internal/blob/core"
)

// Store keeps objects in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	objects map[string]core.Object
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{objects: make(map[string]core.Object)}
}

func (s *Store) Put(_ context.Context, name string, content []byte, contentType string) error {
	if name == "" {
		return fmt.Errorf("blob memory: empty name")
	}

	buf := make([]byte, len(content))
	copy(buf, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = core.Object{Content: buf, ContentType: contentType}
	return nil
}

func (s *Store) Get(_ context.Context, name string) (core.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	if !ok {
		return core.Object{}, fmt.Errorf("%s: %w", name, core.ErrNotFound)
	}

	buf := make([]byte, len(obj.Content))
	copy(buf, obj.Content)
	return core.Object{Content: buf, ContentType: obj.ContentType}, nil
}

func (s *Store) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[name]
	return ok, nil
}

// Len reports the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
