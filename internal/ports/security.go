package ports

import (
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

type AuthClaims struct {
	UserID    string
	Username  string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	KeyID     string
}

type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(raw string) (AuthClaims, error)
}
