package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

// allowedMimeTypes is the upload allow-list: pdf, common images, office
// documents, plain text and csv.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/png":          {},
	"image/jpeg":         {},
	"image/gif":          {},
	"image/webp":         {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {},
	"text/csv":   {},
}

// FileStore keeps uploaded bytes in process memory under opaque keys,
// matching the process-lifetime semantics of the report store.
type FileStore struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	maxSizeBytes int64
}

func NewFileStore(maxSizeBytes int64) *FileStore {
	return &FileStore{
		blobs:        map[string][]byte{},
		maxSizeBytes: maxSizeBytes,
	}
}

func (s *FileStore) Store(_ context.Context, data []byte, originalName, mimeType string, size int64) (ports.StoredFile, error) {
	if size > s.maxSizeBytes || int64(len(data)) > s.maxSizeBytes {
		return ports.StoredFile{}, fmt.Errorf("%w: max %d bytes", domain.ErrFileTooLarge, s.maxSizeBytes)
	}
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if _, ok := allowedMimeTypes[normalized]; !ok {
		return ports.StoredFile{}, fmt.Errorf("%w: %s", domain.ErrInvalidFileType, mimeType)
	}

	key := "obj_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	stored := key + strings.ToLower(filepath.Ext(originalName))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return ports.StoredFile{StorageKey: key, StoredFilename: stored}, nil
}

func (s *FileStore) Retrieve(_ context.Context, storageKey string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[storageKey]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, storageKey)
	}
	return append([]byte(nil), data...), nil
}
