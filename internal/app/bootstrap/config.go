package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for M07.
// It merges file defaults and environment overrides to support both local
// and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int

	MaxUploadBytes       int64
	DownloadTokenTTL     time.Duration
	IdempotencyRetention time.Duration
	AuthTokenTTL         time.Duration

	JWTPrivateKeyPEM  string
	JWTPublicKeyPEM   string
	JWTKeyID          string
	AllowEphemeralJWT bool
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay
// internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Uploads struct {
		MaxBytes                int64 `yaml:"max_bytes"`
		DownloadTokenTTLMinutes int   `yaml:"download_token_ttl_minutes"`
		IdempotencyRetentionHrs int   `yaml:"idempotency_retention_hours"`
	} `yaml:"uploads"`
	Auth struct {
		TokenTTLHours     int    `yaml:"token_ttl_hours"`
		JWTKeyID          string `yaml:"jwt_key_id"`
		JWTPrivateKeyPEM  string `yaml:"jwt_private_key_pem"`
		JWTPublicKeyPEM   string `yaml:"jwt_public_key_pem"`
		AllowEphemeralJWT *bool  `yaml:"allow_ephemeral_jwt"`
	} `yaml:"auth"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific
// overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "M07-Report-Service",
		HTTPPort:             8087,
		MaxUploadBytes:       10 * 1024 * 1024,
		DownloadTokenTTL:     60 * time.Minute,
		IdempotencyRetention: 24 * time.Hour,
		AuthTokenTTL:         24 * time.Hour,
		JWTKeyID:             "m07-report-key-1",
		AllowEphemeralJWT:    true,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Uploads.MaxBytes > 0 {
			cfg.MaxUploadBytes = f.Uploads.MaxBytes
		}
		if f.Uploads.DownloadTokenTTLMinutes > 0 {
			cfg.DownloadTokenTTL = time.Duration(f.Uploads.DownloadTokenTTLMinutes) * time.Minute
		}
		if f.Uploads.IdempotencyRetentionHrs > 0 {
			cfg.IdempotencyRetention = time.Duration(f.Uploads.IdempotencyRetentionHrs) * time.Hour
		}
		if f.Auth.TokenTTLHours > 0 {
			cfg.AuthTokenTTL = time.Duration(f.Auth.TokenTTLHours) * time.Hour
		}
		if f.Auth.JWTKeyID != "" {
			cfg.JWTKeyID = f.Auth.JWTKeyID
		}
		if f.Auth.JWTPrivateKeyPEM != "" {
			cfg.JWTPrivateKeyPEM = f.Auth.JWTPrivateKeyPEM
		}
		if f.Auth.JWTPublicKeyPEM != "" {
			cfg.JWTPublicKeyPEM = f.Auth.JWTPublicKeyPEM
		}
		if f.Auth.AllowEphemeralJWT != nil {
			cfg.AllowEphemeralJWT = *f.Auth.AllowEphemeralJWT
		}
	}

	if v := os.Getenv("M07_HTTP_PORT"); v != "" {
		port, convErr := strconv.Atoi(v)
		if convErr != nil {
			return Config{}, fmt.Errorf("parse M07_HTTP_PORT: %w", convErr)
		}
		cfg.HTTPPort = port
	}
	if v := os.Getenv("M07_MAX_UPLOAD_BYTES"); v != "" {
		n, convErr := strconv.ParseInt(v, 10, 64)
		if convErr != nil {
			return Config{}, fmt.Errorf("parse M07_MAX_UPLOAD_BYTES: %w", convErr)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("M07_DOWNLOAD_TOKEN_TTL_MINUTES"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return Config{}, fmt.Errorf("parse M07_DOWNLOAD_TOKEN_TTL_MINUTES: %w", convErr)
		}
		cfg.DownloadTokenTTL = time.Duration(n) * time.Minute
	}
	if v := os.Getenv("M07_JWT_PRIVATE_KEY_PEM"); v != "" {
		cfg.JWTPrivateKeyPEM = v
	}
	if v := os.Getenv("M07_JWT_PUBLIC_KEY_PEM"); v != "" {
		cfg.JWTPublicKeyPEM = v
	}
	if v := os.Getenv("M07_JWT_KEY_ID"); v != "" {
		cfg.JWTKeyID = v
	}
	if v := os.Getenv("M07_ALLOW_EPHEMERAL_JWT"); v != "" {
		cfg.AllowEphemeralJWT = strings.EqualFold(v, "true") || v == "1"
	}

	return cfg, nil
}
