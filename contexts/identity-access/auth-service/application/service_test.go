package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubsync/contexts/identity-access/auth-service/adapters/memory"
	"clubsync/contexts/identity-access/auth-service/domain/entities"
	domainerrors "clubsync/contexts/identity-access/auth-service/domain/errors"
	"clubsync/contexts/identity-access/auth-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, key any) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func TestAuthenticateBearerToken(t *testing.T) {
	service := Service{Sessions: memory.NewStore(), JWTSecret: testSecret}
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "user-1",
		"club_id": "club-1",
		"role":    "officer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	principal, err := service.Authenticate(context.Background(), Credentials{BearerToken: token})
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if principal.UserID != "user-1" || principal.ClubID != "club-1" || principal.Role != entities.RoleOfficer {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestAuthenticateRejectsBadBearerTokens(t *testing.T) {
	service := Service{Sessions: memory.NewStore(), JWTSecret: testSecret}

	expired := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "member",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}, testSecret)
	if _, err := service.Authenticate(context.Background(), Credentials{BearerToken: expired}); !errors.Is(err, domainerrors.ErrInvalidBearer) {
		t.Fatalf("expected invalid bearer for expired token, got %v", err)
	}

	wrongKey := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "member",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, []byte("other-secret"))
	if _, err := service.Authenticate(context.Background(), Credentials{BearerToken: wrongKey}); !errors.Is(err, domainerrors.ErrInvalidBearer) {
		t.Fatalf("expected invalid bearer for wrong key, got %v", err)
	}

	badRole := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "overlord",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	if _, err := service.Authenticate(context.Background(), Credentials{BearerToken: badRole}); !errors.Is(err, domainerrors.ErrInvalidBearer) {
		t.Fatalf("expected invalid bearer for unknown role, got %v", err)
	}
}

func TestAuthenticateSessionLookup(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.SetSession(ports.Session{
		SessionID: "sess-1",
		UserID:    "user-1",
		ClubID:    "club-1",
		Role:      entities.RoleMember,
		ExpiresAt: now.Add(time.Hour),
	})
	store.SetSession(ports.Session{
		SessionID: "sess-stale",
		UserID:    "user-2",
		Role:      entities.RoleMember,
		ExpiresAt: now.Add(-time.Minute),
	})
	service := Service{Sessions: store, Clock: fixedClock{now: now}, JWTSecret: testSecret}

	principal, err := service.Authenticate(context.Background(), Credentials{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("session authenticate failed: %v", err)
	}
	if principal.UserID != "user-1" || principal.Role != entities.RoleMember {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := service.Authenticate(context.Background(), Credentials{SessionID: "sess-stale"}); !errors.Is(err, domainerrors.ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), Credentials{SessionID: "sess-missing"}); !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for unknown session, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), Credentials{}); !errors.Is(err, domainerrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated without credentials, got %v", err)
	}
}

func TestRequireRoleOrdering(t *testing.T) {
	service := Service{JWTSecret: testSecret}

	member := entities.Principal{UserID: "user-1", Role: entities.RoleMember}
	officer := entities.Principal{UserID: "user-2", Role: entities.RoleOfficer}
	admin := entities.Principal{UserID: "user-3", Role: entities.RoleAdmin}

	if err := service.RequireRole(member, entities.RoleMember); err != nil {
		t.Fatalf("member should pass member gate: %v", err)
	}
	if err := service.RequireRole(member, entities.RoleOfficer); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for member at officer gate, got %v", err)
	}
	if err := service.RequireRole(officer, entities.RoleMember); err != nil {
		t.Fatalf("officer should pass member gate: %v", err)
	}
	if err := service.RequireRole(admin, entities.RoleOfficer); err != nil {
		t.Fatalf("admin should pass officer gate: %v", err)
	}
}
