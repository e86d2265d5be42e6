package application

import (
	"context"
	"errors"
	"testing"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.IssueToken(ctx, TokenRequest{Username: "edith", Role: "editor"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if res.Token == "" || res.UserID == "" {
		t.Fatalf("incomplete token result: %+v", res)
	}

	actor, err := svc.ValidateToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if actor.UserID != res.UserID || actor.Username != "edith" || actor.Role != domain.RoleEditor {
		t.Fatalf("actor mismatch: %+v", actor)
	}
}

func TestIssueTokenValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.IssueToken(ctx, TokenRequest{Username: "x", Role: "admin"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	if _, err := svc.IssueToken(ctx, TokenRequest{Username: " ", Role: "reader"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected missing username, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.ValidateToken(context.Background(), "not-a-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
