package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coivault/internal/models/db_models"
)

type BillingEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	// Record marks an event as applied. Recording the same id twice is a no-op.
	Record(ctx context.Context, eventID, eventType string) error
}

type billingEventRepository struct {
	db *gorm.DB
}

func NewBillingEventRepository(db *gorm.DB) BillingEventRepository {
	return &billingEventRepository{db: db}
}

func (b *billingEventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).
		Model(&db_models.BillingEvent{}).
		Where("id = ?", eventID).
		Count(&count).Error
	return count > 0, err
}

func (b *billingEventRepository) Record(ctx context.Context, eventID, eventType string) error {
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db_models.BillingEvent{
			ID:          eventID,
			Type:        eventType,
			ProcessedAt: time.Now().UTC(),
		}).Error
}
