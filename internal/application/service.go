package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

type Config struct {
	DownloadTokenTTL     time.Duration
	IdempotencyRetention time.Duration
	AuthTokenTTL         time.Duration
}

type Service struct {
	cfg         Config
	reports     ports.ReportRepository
	idempotency ports.IdempotencyStore
	files       ports.FileStore
	tokens      ports.DownloadTokenStore
	signer      ports.TokenSigner
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Reports     ports.ReportRepository
	Idempotency ports.IdempotencyStore
	Files       ports.FileStore
	Tokens      ports.DownloadTokenStore
	Signer      ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.DownloadTokenTTL <= 0 {
		cfg.DownloadTokenTTL = 60 * time.Minute
	}
	if cfg.IdempotencyRetention <= 0 {
		cfg.IdempotencyRetention = 24 * time.Hour
	}
	if cfg.AuthTokenTTL <= 0 {
		cfg.AuthTokenTTL = 24 * time.Hour
	}
	return &Service{
		cfg:         cfg,
		reports:     deps.Reports,
		idempotency: deps.Idempotency,
		files:       deps.Files,
		tokens:      deps.Tokens,
		signer:      deps.Signer,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

func hashJSON(v any) string {
	raw, _ := json.Marshal(v)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (s *Service) getIdempotent(ctx context.Context, key, expectedHash string) ([]byte, bool, error) {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil, false, nil
	}
	rec, err := s.idempotency.Get(ctx, key, s.nowFn())
	if err != nil || rec == nil {
		return nil, false, err
	}
	if rec.RequestHash != expectedHash {
		return nil, false, domain.ErrIdempotencyConflict
	}
	if len(rec.ResponseBody) == 0 {
		return nil, false, nil
	}
	return rec.ResponseBody, true, nil
}

func (s *Service) reserveIdempotency(ctx context.Context, key, requestHash string) error {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	now := s.nowFn()
	return s.idempotency.Reserve(ctx, key, requestHash, now, now.Add(s.cfg.IdempotencyRetention))
}

func (s *Service) completeIdempotencyJSON(ctx context.Context, key string, code int, v any) error {
	if s.idempotency == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.idempotency.Complete(ctx, key, code, raw, s.nowFn())
}
