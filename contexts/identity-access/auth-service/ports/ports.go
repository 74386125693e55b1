package ports

import (
	"context"
	"time"

	"clubsync/contexts/identity-access/auth-service/domain/entities"
)

// Session is one server-side login record.
type Session struct {
	SessionID string
	UserID    string
	ClubID    string
	Role      entities.Role
	ExpiresAt time.Time
}

// SessionStore resolves opaque session ids. Missing sessions return
// found=false, not an error.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (Session, bool, error)
}

type Clock interface {
	Now() time.Time
}
