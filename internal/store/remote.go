package store

import (
	"context"
	"fmt"

	"github.com/Parthajit/Timer-Tools/internal/models"

	"gorm.io/gorm"
)

// Remote is the GORM-backed SessionStore. Writes are append-only; sessions
// are never updated or deleted through this type.
type Remote struct {
	db *gorm.DB
}

func NewRemote(db *gorm.DB) *Remote {
	return &Remote{db: db}
}

func (r *Remote) Add(ctx context.Context, s *models.TimerSession) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("add session: %w", err)
	}
	return nil
}

func (r *Remote) ByOwner(ctx context.Context, ownerID string) ([]models.TimerSession, error) {
	var sessions []models.TimerSession
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return sessions, nil
}
