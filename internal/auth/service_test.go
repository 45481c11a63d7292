package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestAuthService(t *testing.T, now time.Time) *Service {
	t.Helper()

	table, err := NewTable([]Credential{
		{Role: RoleModerator, PasswordHash: mustHash(t, "modpass")},
		{Role: RoleGameMaster, PasswordHash: mustHash(t, "weekend"), Windows: []Window{
			{Weekday: time.Saturday, Hour: 0, Duration: 48 * time.Hour},
		}},
	})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	jwtConfig := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return NewService(table, jwtConfig, func() time.Time { return now })
}

func TestLogin_RejectsInvalidOperator(t *testing.T) {
	svc := newTestAuthService(t, time.Now())

	if _, err := svc.Login("", RoleModerator, "modpass"); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}

	// Should be validated after trimming whitespace.
	if _, err := svc.Login("   ", RoleModerator, "modpass"); !errors.Is(err, ErrInvalidOperator) {
		t.Fatalf("expected ErrInvalidOperator, got %v", err)
	}
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, time.Now())

	if _, err := svc.Login("alice", RoleModerator, "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("alice", RoleCaseManager, "modpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected role mismatch to fail, got %v", err)
	}
}

func TestLogin_RespectsSchedule(t *testing.T) {
	// 2026-10-17 is a Saturday.
	saturday := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	if _, err := newTestAuthService(t, saturday).Login("gm", RoleGameMaster, "weekend"); err != nil {
		t.Fatalf("expected weekend login to succeed: %v", err)
	}

	tuesday := saturday.Add(3 * 24 * time.Hour)
	if _, err := newTestAuthService(t, tuesday).Login("gm", RoleGameMaster, "weekend"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected weekday login to fail, got %v", err)
	}
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc := newTestAuthService(t, time.Now())

	token, err := svc.Login(" alice ", RoleModerator, "modpass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Operator != "alice" || claims.Role != RoleModerator || claims.Subject != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
