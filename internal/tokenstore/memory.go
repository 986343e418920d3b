package tokenstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/orghub/orghub/internal/clock"
)

// MemoryStore is an in-process Store used by tests and local development
// when redis is not available.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]time.Time
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Save(ctx context.Context, namespace, subject, token string, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[Key(namespace, subject, token)] = s.clock.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, namespace, subject, token string) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[Key(namespace, subject, token)]
	if !ok {
		return false, nil
	}
	if !s.clock.Now().Before(expiry) {
		delete(s.entries, Key(namespace, subject, token))
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, namespace, subject, token string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, Key(namespace, subject, token))
	return nil
}

func (s *MemoryStore) RevokeSubject(ctx context.Context, subject string) (int, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	marker := ":" + subject + ":"
	revoked := 0
	for key := range s.entries {
		if strings.Contains(key, marker) {
			delete(s.entries, key)
			revoked++
		}
	}
	return revoked, nil
}

var _ Store = (*MemoryStore)(nil)
