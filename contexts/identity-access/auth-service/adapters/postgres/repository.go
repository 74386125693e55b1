package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubsync/contexts/identity-access/auth-service/domain/entities"
	"clubsync/contexts/identity-access/auth-service/ports"

	"gorm.io/gorm"
)

// Repository reads login sessions owned by the (out-of-scope) user service.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (ports.Session, bool, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, false, nil
		}
		r.logger.Error("auth repository operation failed",
			"event", "auth_repo_get_session_failed",
			"module", "identity-access/auth-service",
			"layer", "adapter",
			"error", err.Error(),
		)
		return ports.Session{}, false, err
	}
	return ports.Session{
		SessionID: row.ID,
		UserID:    row.UserID,
		ClubID:    row.ClubID,
		Role:      entities.Role(row.Role),
		ExpiresAt: row.ExpiresAt.UTC(),
	}, true, nil
}

type sessionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id"`
	ClubID    string    `gorm:"column:club_id"`
	Role      string    `gorm:"column:role"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (sessionModel) TableName() string {
	return "sessions"
}
