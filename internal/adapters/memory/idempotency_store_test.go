package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

func TestIdempotencyReserveCompleteGet(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Reserve(ctx, "key-1", "hash-1", now, now.Add(time.Hour)); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := store.Reserve(ctx, "key-1", "hash-1", now, now.Add(time.Hour)); !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected conflict on live key, got %v", err)
	}

	rec, err := store.Get(ctx, "key-1", now)
	if err != nil || rec == nil {
		t.Fatalf("get pending: rec=%v err=%v", rec, err)
	}
	if rec.Status != "PENDING" || len(rec.ResponseBody) != 0 {
		t.Fatalf("unexpected pending record: %+v", rec)
	}

	if err := store.Complete(ctx, "key-1", 200, []byte(`{"ok":true}`), now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	rec, err = store.Get(ctx, "key-1", now)
	if err != nil || rec == nil {
		t.Fatalf("get completed: rec=%v err=%v", rec, err)
	}
	if rec.Status != "COMPLETED" || rec.ResponseCode != 200 || string(rec.ResponseBody) != `{"ok":true}` {
		t.Fatalf("unexpected completed record: %+v", rec)
	}
}

func TestIdempotencyExpiryDropsRecord(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Reserve(ctx, "key-2", "hash-2", now, now.Add(time.Minute)); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	rec, err := store.Get(ctx, "key-2", now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected expired record to be dropped, got %+v", rec)
	}
}

func TestIdempotencyReserveUsesCallerClock(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := store.Reserve(ctx, "key-3", "hash-3", base, base.Add(time.Hour)); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// The liveness check follows the supplied clock, so a key whose record
	// expired by that clock can be reserved again without sleeping.
	later := base.Add(2 * time.Hour)
	if err := store.Reserve(ctx, "key-3", "hash-3b", later, later.Add(time.Hour)); err != nil {
		t.Fatalf("reserve after expiry: %v", err)
	}
	rec, err := store.Get(ctx, "key-3", later)
	if err != nil || rec == nil {
		t.Fatalf("get: rec=%v err=%v", rec, err)
	}
	if rec.RequestHash != "hash-3b" {
		t.Fatalf("expected fresh reservation, got %+v", rec)
	}
}

func TestIdempotencyCompleteUnknownKey(t *testing.T) {
	store := NewIdempotencyStore()
	if err := store.Complete(context.Background(), "missing", 200, nil, time.Now().UTC()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
