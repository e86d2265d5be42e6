package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 8087 || cfg.MaxUploadBytes != 10*1024*1024 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DownloadTokenTTL != time.Hour || !cfg.AllowEphemeralJWT {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "service:\n  http_port: 9001\nuploads:\n  max_bytes: 1024\n  download_token_ttl_minutes: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("M07_HTTP_PORT", "9002")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 9002 {
		t.Fatalf("env must override file, got port %d", cfg.HTTPPort)
	}
	if cfg.MaxUploadBytes != 1024 || cfg.DownloadTokenTTL != 5*time.Minute {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("M07_HTTP_PORT", "not-a-port")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}
