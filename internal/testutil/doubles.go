package testutil

import (
	"context"
	"errors"
	"sync"

	"folio/internal/mailer"
	"folio/internal/storage"
)

// MemoryBlobStore is an in-memory storage.BlobStore.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string][]byte)}
}

func (s *MemoryBlobStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return b, nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *MemoryBlobStore) URL(key string) string { return "/media/" + key }

// Keys lists the stored keys.
func (s *MemoryBlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		out = append(out, k)
	}
	return out
}

// StubMailer records messages and fails every send when Err is set. A
// non-nil Block holds each send until it is closed.
type StubMailer struct {
	mu    sync.Mutex
	Err   error
	Block chan struct{}
	Sent  []mailer.Message
}

// ErrMailDown is a convenient delivery failure for tests.
var ErrMailDown = errors.New("smtp unavailable")

func (m *StubMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	err, block := m.Err, m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Attempts reports how many sends were tried.
func (m *StubMailer) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
