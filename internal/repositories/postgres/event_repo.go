package postgres

import (
	"context"

	"github.com/hirelytics/hirelytics/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Insert(ctx context.Context, e *models.ApplicationEvent) error
	ListByApplication(ctx context.Context, userID, applicationID string, limit int) ([]models.ApplicationEvent, error)
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

// Insert ignores a repeated id, so a redelivered stream message is harmless.
func (r *eventRepo) Insert(ctx context.Context, e *models.ApplicationEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e).Error
}

func (r *eventRepo) ListByApplication(ctx context.Context, userID, applicationID string, limit int) ([]models.ApplicationEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.ApplicationEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Order("at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
