package ports

import (
	"context"
	"time"
)

type StoredFile struct {
	StorageKey     string
	StoredFilename string
}

// FileStore persists uploaded bytes under opaque storage keys. Store
// validates size and MIME type before persisting.
type FileStore interface {
	Store(ctx context.Context, data []byte, originalName, mimeType string, size int64) (StoredFile, error)
	Retrieve(ctx context.Context, storageKey string) ([]byte, error)
}

// DownloadTokenStore mints and validates short-lived opaque tokens bound to
// one storage key each.
type DownloadTokenStore interface {
	Generate(ctx context.Context, storageKey string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Validate(ctx context.Context, token string) (storageKey string, ok bool)
}
