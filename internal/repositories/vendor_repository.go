package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coivault/internal/models/db_models"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *db_models.Vendor) error
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
	// ListByOrg returns non-deleted vendors newest first, each with its
	// non-deleted documents ordered by expiry.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]db_models.Vendor, error)
	FindByID(ctx context.Context, orgID, vendorID uuid.UUID) (*db_models.Vendor, error)
	FindByIDWithDocuments(ctx context.Context, orgID, vendorID uuid.UUID) (*db_models.Vendor, error)
	// FindByIDUnscoped also returns soft-deleted vendors. Used for audit reads.
	FindByIDUnscoped(ctx context.Context, vendorID uuid.UUID) (*db_models.Vendor, error)
	SoftDelete(ctx context.Context, vendorID uuid.UUID) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (v *vendorRepository) Create(ctx context.Context, vendor *db_models.Vendor) error {
	return v.db.WithContext(ctx).Create(vendor).Error
}

func (v *vendorRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := v.db.WithContext(ctx).
		Model(&db_models.Vendor{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	return count, err
}

func (v *vendorRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]db_models.Vendor, error) {
	var vendors []db_models.Vendor
	err := v.db.WithContext(ctx).
		Preload("Documents", orderByExpiry).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&vendors).Error
	return vendors, err
}

func (v *vendorRepository) FindByID(ctx context.Context, orgID, vendorID uuid.UUID) (*db_models.Vendor, error) {
	return v.first(v.db.WithContext(ctx), "id = ? AND org_id = ?", vendorID, orgID)
}

func (v *vendorRepository) FindByIDWithDocuments(ctx context.Context, orgID, vendorID uuid.UUID) (*db_models.Vendor, error) {
	return v.first(v.db.WithContext(ctx).Preload("Documents", orderByExpiry), "id = ? AND org_id = ?", vendorID, orgID)
}

func (v *vendorRepository) FindByIDUnscoped(ctx context.Context, vendorID uuid.UUID) (*db_models.Vendor, error) {
	return v.first(v.db.WithContext(ctx).Unscoped(), "id = ?", vendorID)
}

func (v *vendorRepository) SoftDelete(ctx context.Context, vendorID uuid.UUID) error {
	return v.db.WithContext(ctx).Delete(&db_models.Vendor{}, "id = ?", vendorID).Error
}

func (v *vendorRepository) first(db *gorm.DB, query string, args ...any) (*db_models.Vendor, error) {
	var vendor db_models.Vendor
	err := db.Where(query, args...).First(&vendor).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &vendor, nil
}

func orderByExpiry(db *gorm.DB) *gorm.DB {
	return db.Order("expiry_date ASC")
}
