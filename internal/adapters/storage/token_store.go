package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type tokenEntry struct {
	storageKey string
	expiresAt  time.Time
}

// DownloadTokenStore mints opaque short-lived tokens bound to one storage
// key each. Expired tokens are purged opportunistically on Generate and
// dropped on Validate, so a token can never resurrect.
type DownloadTokenStore struct {
	mu     sync.Mutex
	tokens map[string]tokenEntry
	nowFn  func() time.Time
}

func NewDownloadTokenStore() *DownloadTokenStore {
	return &DownloadTokenStore{
		tokens: map[string]tokenEntry{},
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *DownloadTokenStore) Generate(_ context.Context, storageKey string, ttl time.Duration) (string, time.Time, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	now := s.nowFn()
	expiresAt := now.Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.tokens {
		if now.After(e.expiresAt) {
			delete(s.tokens, k)
		}
	}
	s.tokens[token] = tokenEntry{storageKey: storageKey, expiresAt: expiresAt}
	return token, expiresAt, nil
}

func (s *DownloadTokenStore) Validate(_ context.Context, token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	if s.nowFn().After(entry.expiresAt) {
		delete(s.tokens, token)
		return "", false
	}
	return entry.storageKey, true
}
