package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/adapters/storage"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/application"

	httpadapter "github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/adapters/http"
)

// Runtime owns the wired service graph and the HTTP server lifecycle.
type Runtime struct {
	cfg    Config
	logger *slog.Logger
	server *http.Server
}

// NewRuntime wires adapters into the application service and builds the HTTP
// server. All state is in-process; there are no external connections to open.
func NewRuntime(cfg Config) (*Runtime, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	signer, err := buildSigner(cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			DownloadTokenTTL:     cfg.DownloadTokenTTL,
			IdempotencyRetention: cfg.IdempotencyRetention,
			AuthTokenTTL:         cfg.AuthTokenTTL,
		},
		Reports:     memory.NewReportRepository(),
		Idempotency: memory.NewIdempotencyStore(),
		Files:       storage.NewFileStore(cfg.MaxUploadBytes),
		Tokens:      storage.NewDownloadTokenStore(),
		Signer:      signer,
	})

	router := httpadapter.NewRouter(httpadapter.NewHandler(svc))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Runtime{cfg: cfg, logger: logger, server: server}, nil
}

func buildSigner(cfg Config, logger *slog.Logger) (*security.JWTSigner, error) {
	if cfg.JWTPrivateKeyPEM != "" && cfg.JWTPublicKeyPEM != "" {
		return security.NewJWTSigner(cfg.JWTKeyID, cfg.JWTPrivateKeyPEM, cfg.JWTPublicKeyPEM)
	}
	if !cfg.AllowEphemeralJWT {
		return nil, errors.New("jwt key material missing and ephemeral keys are disabled")
	}
	logger.Warn("no JWT key material configured, generating ephemeral keypair",
		slog.String("service", cfg.ServiceID),
	)
	return security.NewEphemeralJWTSigner(cfg.JWTKeyID)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (r *Runtime) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server listening",
			slog.String("service", r.cfg.ServiceID),
			slog.String("addr", r.server.Addr),
		)
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	r.logger.Info("shutting down http server", slog.String("service", r.cfg.ServiceID))
	if err := r.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}
