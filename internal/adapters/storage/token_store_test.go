package storage

import (
	"context"
	"testing"
	"time"
)

func TestDownloadTokenLifecycle(t *testing.T) {
	store := NewDownloadTokenStore()
	now := time.Now().UTC()
	store.nowFn = func() time.Time { return now }

	token, expiresAt, err := store.Generate(context.Background(), "obj_abc", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, now.Add(time.Hour))
	}

	key, ok := store.Validate(context.Background(), token)
	if !ok || key != "obj_abc" {
		t.Fatalf("validate: key=%q ok=%v", key, ok)
	}

	// Past the TTL the token is gone, and it stays gone even if the clock
	// subsequently moves back.
	store.nowFn = func() time.Time { return now.Add(2 * time.Hour) }
	if _, ok := store.Validate(context.Background(), token); ok {
		t.Fatalf("expected expired token to be rejected")
	}
	store.nowFn = func() time.Time { return now }
	if _, ok := store.Validate(context.Background(), token); ok {
		t.Fatalf("expected expired token to stay invalid")
	}
}

func TestDownloadTokenUnknownToken(t *testing.T) {
	store := NewDownloadTokenStore()
	if _, ok := store.Validate(context.Background(), "nope"); ok {
		t.Fatalf("expected unknown token to be rejected")
	}
}

func TestGeneratePurgesExpiredTokens(t *testing.T) {
	store := NewDownloadTokenStore()
	now := time.Now().UTC()
	store.nowFn = func() time.Time { return now }

	old, _, err := store.Generate(context.Background(), "obj_old", time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	store.nowFn = func() time.Time { return now.Add(time.Hour) }
	if _, _, err := store.Generate(context.Background(), "obj_new", time.Minute); err != nil {
		t.Fatalf("generate: %v", err)
	}

	store.mu.Lock()
	_, stillThere := store.tokens[old]
	store.mu.Unlock()
	if stillThere {
		t.Fatalf("expected expired token to be purged on generate")
	}
}

func TestTokensAreSingleUseScoped(t *testing.T) {
	store := NewDownloadTokenStore()
	tokenA, _, _ := store.Generate(context.Background(), "obj_a", time.Hour)
	tokenB, _, _ := store.Generate(context.Background(), "obj_b", time.Hour)
	if tokenA == tokenB {
		t.Fatalf("tokens must be unique")
	}
	keyA, _ := store.Validate(context.Background(), tokenA)
	keyB, _ := store.Validate(context.Background(), tokenB)
	if keyA != "obj_a" || keyB != "obj_b" {
		t.Fatalf("token/key binding broken: %q %q", keyA, keyB)
	}
}
