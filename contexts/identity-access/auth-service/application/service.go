package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clubsync/contexts/identity-access/auth-service/domain/entities"
	domainerrors "clubsync/contexts/identity-access/auth-service/domain/errors"
	"clubsync/contexts/identity-access/auth-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials carries whatever the HTTP layer extracted from the request.
// Bearer wins when both are present.
type Credentials struct {
	BearerToken string
	SessionID   string
}

// Service normalizes session and bearer credentials into one Principal.
type Service struct {
	Sessions  ports.SessionStore
	Clock     ports.Clock
	JWTSecret []byte
	Logger    *slog.Logger
}

// Authenticate resolves the caller from either credential source. Handlers
// downstream only ever see the Principal.
func (s Service) Authenticate(ctx context.Context, creds Credentials) (entities.Principal, error) {
	if token := strings.TrimSpace(creds.BearerToken); token != "" {
		return s.verifyBearer(token)
	}
	if sessionID := strings.TrimSpace(creds.SessionID); sessionID != "" {
		return s.resolveSession(ctx, sessionID)
	}
	return entities.Principal{}, domainerrors.ErrUnauthenticated
}

// RequireRole is the single authorization predicate for every endpoint.
func (s Service) RequireRole(principal entities.Principal, required entities.Role) error {
	if !principal.Role.AtLeast(required) {
		s.logger().Warn("authorization denied",
			"event", "auth_role_denied",
			"module", "identity-access/auth-service",
			"layer", "application",
			"required_role", string(required),
		)
		return domainerrors.ErrForbidden
	}
	return nil
}

func (s Service) verifyBearer(raw string) (entities.Principal, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domainerrors.ErrInvalidBearer
		}
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		s.logger().Warn("bearer token rejected",
			"event", "auth_bearer_rejected",
			"module", "identity-access/auth-service",
			"layer", "application",
		)
		return entities.Principal{}, domainerrors.ErrInvalidBearer
	}

	principal := entities.Principal{
		UserID: claimString(claims, "sub"),
		ClubID: claimString(claims, "club_id"),
		Role:   entities.Role(claimString(claims, "role")),
	}
	if principal.UserID == "" || !principal.Role.Valid() {
		return entities.Principal{}, domainerrors.ErrInvalidBearer
	}
	return principal, nil
}

func (s Service) resolveSession(ctx context.Context, sessionID string) (entities.Principal, error) {
	session, found, err := s.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Principal{}, err
	}
	if !found {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	if !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt) {
		return entities.Principal{}, domainerrors.ErrSessionExpired
	}
	if session.UserID == "" || !session.Role.Valid() {
		return entities.Principal{}, domainerrors.ErrUnauthenticated
	}
	return entities.Principal{
		UserID: session.UserID,
		ClubID: session.ClubID,
		Role:   session.Role,
	}, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func claimString(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return strings.TrimSpace(value)
}
