// Package memory is an in-process document store for development and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"medid/internal/documents"
)

type storedObject struct {
	contentType string
	data        []byte
}

// Store keeps documents in a map keyed by object name.
type Store struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]storedObject
}

// New returns a store whose URLs are baseURL + "/" + object name.
func New(baseURL string) *Store {
	if baseURL == "" {
		baseURL = "memory://documents"
	}
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]storedObject),
	}
}

func (s *Store) Put(ctx context.Context, obj documents.Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)

	s.mu.Lock()
	s.objects[obj.Name()] = storedObject{contentType: obj.ContentType, data: data}
	s.mu.Unlock()

	return s.baseURL + "/" + obj.Name(), nil
}

func (s *Store) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return documents.ErrForeignURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; !ok {
		return documents.ErrNotFound
	}
	delete(s.objects, name)
	return nil
}

// Get returns a stored document's bytes by URL.
func (s *Store) Get(url string) ([]byte, string, bool) {
	name, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil, "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	return obj.data, obj.contentType, ok
}

// Len reports how many documents are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
