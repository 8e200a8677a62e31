package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coivault/internal/models/db_models"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *db_models.AuditLog) error
	// ListByOrg returns one page of entries, newest first, and the total
	// number of entries for the organization.
	ListByOrg(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]db_models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (a *auditRepository) Create(ctx context.Context, entry *db_models.AuditLog) error {
	return a.db.WithContext(ctx).Create(entry).Error
}

func (a *auditRepository) ListByOrg(ctx context.Context, orgID uuid.UUID, page, pageSize int) ([]db_models.AuditLog, int64, error) {
	var (
		entries []db_models.AuditLog
		total   int64
	)

	query := a.db.WithContext(ctx).Model(&db_models.AuditLog{}).Where("org_id = ?", orgID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
