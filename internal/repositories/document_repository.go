package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coivault/internal/models/db_models"
)

const (
	joinLiveVendors = "JOIN vendors ON vendors.id = documents.vendor_id AND vendors.deleted_at IS NULL"
	joinLiveOrgs    = "JOIN organizations ON organizations.id = vendors.org_id AND organizations.deleted_at IS NULL"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *db_models.Document) error
	// CountByOrg counts non-deleted documents under non-deleted vendors.
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, orgID, documentID uuid.UUID) (*db_models.Document, error)
	FindByIDUnscoped(ctx context.Context, documentID uuid.UUID) (*db_models.Document, error)
	SoftDelete(ctx context.Context, documentID uuid.UUID) error
	// ListExpiring returns documents with expiry in [from, to] across all
	// tenants, skipping rows whose vendor or organization is deleted. The
	// vendor and its organization are loaded.
	ListExpiring(ctx context.Context, from, to time.Time) ([]db_models.Document, error)
	// ListExpiringForOrg returns up to limit documents expiring before the
	// given instant, soonest first. Already expired documents are included.
	ListExpiringForOrg(ctx context.Context, orgID uuid.UUID, before time.Time, limit int) ([]db_models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (d *documentRepository) Create(ctx context.Context, doc *db_models.Document) error {
	return d.db.WithContext(ctx).Create(doc).Error
}

func (d *documentRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&db_models.Document{}).
		Joins(joinLiveVendors).
		Where("vendors.org_id = ?", orgID).
		Count(&count).Error
	return count, err
}

func (d *documentRepository) FindByID(ctx context.Context, orgID, documentID uuid.UUID) (*db_models.Document, error) {
	var doc db_models.Document
	err := d.db.WithContext(ctx).
		Joins(joinLiveVendors).
		Preload("Vendor").
		Where("documents.id = ? AND vendors.org_id = ?", documentID, orgID).
		First(&doc).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

func (d *documentRepository) FindByIDUnscoped(ctx context.Context, documentID uuid.UUID) (*db_models.Document, error) {
	var doc db_models.Document
	err := d.db.WithContext(ctx).Unscoped().First(&doc, "id = ?", documentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

func (d *documentRepository) SoftDelete(ctx context.Context, documentID uuid.UUID) error {
	return d.db.WithContext(ctx).Delete(&db_models.Document{}, "id = ?", documentID).Error
}

func (d *documentRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]db_models.Document, error) {
	var docs []db_models.Document
	err := d.db.WithContext(ctx).
		Joins(joinLiveVendors).
		Joins(joinLiveOrgs).
		Preload("Vendor.Organization").
		Where("documents.expiry_date >= ? AND documents.expiry_date <= ?", from.UTC(), to.UTC()).
		Order("documents.expiry_date ASC").
		Find(&docs).Error
	return docs, err
}

func (d *documentRepository) ListExpiringForOrg(ctx context.Context, orgID uuid.UUID, before time.Time, limit int) ([]db_models.Document, error) {
	var docs []db_models.Document
	err := d.db.WithContext(ctx).
		Joins(joinLiveVendors).
		Preload("Vendor").
		Where("vendors.org_id = ? AND documents.expiry_date <= ?", orgID, before.UTC()).
		Order("documents.expiry_date ASC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}
