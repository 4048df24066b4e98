// Package memory es un object storage en proceso; las URLs son memory://bucket/path.
package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"dog-breed-social/internal/ports/backend"
)

type Object struct {
	ContentType string
	Data        []byte
}

type Store struct {
	mu      sync.RWMutex
	objects map[string]Object // "bucket/path"
}

func NewStore() *Store {
	return &Store{objects: map[string]Object{}}
}

func key(bucket, path string) string {
	return strings.Trim(bucket, "/") + "/" + strings.TrimLeft(path, "/")
}

func (s *Store) Upload(ctx context.Context, bucket, path, contentType string, r io.Reader) (string, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(path) == "" {
		return "", backend.Invalid("bucket and path are required")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", backend.Wrap(backend.KindUnavailable, "upload failed", err)
	}

	k := key(bucket, path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[k]; exists {
		return "", backend.Conflict("object already exists")
	}
	s.objects[k] = Object{ContentType: contentType, Data: buf.Bytes()}
	return s.PublicURL(bucket, path), nil
}

func (s *Store) PublicURL(bucket, path string) string {
	return "memory://" + key(bucket, path)
}

// Get devuelve una copia del objeto.
func (s *Store) Get(bucket, path string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key(bucket, path)]
	if !ok {
		return Object{}, false
	}
	return Object{ContentType: o.ContentType, Data: bytes.Clone(o.Data)}, true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
