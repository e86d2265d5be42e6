package memory

import (
	"context"
	"sync"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

// IdempotencyStore caches completed responses per caller-supplied key with a
// bounded retention window. Expired entries are dropped lazily on read.
type IdempotencyStore struct {
	mu   sync.Mutex
	rows map[string]ports.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{rows: map[string]ports.IdempotencyRecord{}}
}

func (s *IdempotencyStore) Get(_ context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[key]
	if !ok {
		return nil, nil
	}
	if now.After(rec.ExpiresAt) {
		delete(s.rows, key)
		return nil, nil
	}
	out := rec
	out.ResponseBody = append([]byte(nil), rec.ResponseBody...)
	return &out, nil
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, requestHash string, now, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.rows[key]; ok && now.Before(existing.ExpiresAt) {
		return domain.ErrIdempotencyConflict
	}
	s.rows[key] = ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      "PENDING",
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = "COMPLETED"
	rec.ResponseCode = responseCode
	rec.ResponseBody = append([]byte(nil), responseBody...)
	rec.UpdatedAt = at
	s.rows[key] = rec
	return nil
}
