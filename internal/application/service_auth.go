package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

// IssueToken mints a self-contained identity token for local and test use.
// There is no user registry behind it: whatever identity the caller names is
// the identity the token carries.
func (s *Service) IssueToken(_ context.Context, req TokenRequest) (TokenResult, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return TokenResult{}, fmt.Errorf("%w: role must be reader or editor", domain.ErrInvalidInput)
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return TokenResult{}, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = "usr_" + uuid.NewString()
	}

	now := s.nowFn()
	expiresAt := now.Add(s.cfg.AuthTokenTTL)
	token, err := s.signer.Sign(ports.AuthClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return TokenResult{}, err
	}

	return TokenResult{
		Token:     token,
		UserID:    userID,
		Username:  username,
		Role:      string(role),
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken resolves a bearer token into the actor identity consumed by
// every report operation.
func (s *Service) ValidateToken(_ context.Context, raw string) (Actor, error) {
	claims, err := s.signer.ParseAndValidate(raw)
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return Actor{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
