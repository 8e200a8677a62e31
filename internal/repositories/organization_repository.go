package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coivault/internal/models/db_models"
)

type OrganizationRepository interface {
	// FindPrimaryMembership returns the caller's oldest membership in a
	// non-deleted organization, with the organization loaded.
	FindPrimaryMembership(ctx context.Context, userID uuid.UUID) (*db_models.Membership, error)
	FindById(ctx context.Context, orgID uuid.UUID) (*db_models.Organization, error)
	UpdateName(ctx context.Context, orgID uuid.UUID, name string) error
	CountMembers(ctx context.Context, orgID uuid.UUID) (int64, error)
	// OwnerEmails maps each organization to the emails of its OWNER members.
	OwnerEmails(ctx context.Context, orgIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (o *organizationRepository) FindPrimaryMembership(ctx context.Context, userID uuid.UUID) (*db_models.Membership, error) {
	var membership db_models.Membership
	err := o.db.WithContext(ctx).
		Joins("JOIN organizations ON organizations.id = memberships.org_id AND organizations.deleted_at IS NULL").
		Preload("Organization").
		Where("memberships.user_id = ?", userID).
		Order("memberships.created_at ASC").
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &membership, nil
}

func (o *organizationRepository) FindById(ctx context.Context, orgID uuid.UUID) (*db_models.Organization, error) {
	var org db_models.Organization
	err := o.db.WithContext(ctx).
		Preload("Subscription").
		First(&org, "id = ?", orgID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &org, nil
}

func (o *organizationRepository) UpdateName(ctx context.Context, orgID uuid.UUID, name string) error {
	return o.db.WithContext(ctx).
		Model(&db_models.Organization{}).
		Where("id = ?", orgID).
		Update("name", name).Error
}

func (o *organizationRepository) CountMembers(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := o.db.WithContext(ctx).
		Model(&db_models.Membership{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	return count, err
}

func (o *organizationRepository) OwnerEmails(ctx context.Context, orgIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(orgIDs))
	if len(orgIDs) == 0 {
		return result, nil
	}

	type row struct {
		OrgID uuid.UUID
		Email string
	}
	var rows []row
	err := o.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.org_id AS org_id, users.email AS email").
		Joins("JOIN users ON users.id = memberships.user_id AND users.deleted_at IS NULL").
		Where("memberships.deleted_at IS NULL").
		Where("memberships.role = ?", db_models.RoleOwner).
		Where("memberships.org_id IN ?", orgIDs).
		Order("memberships.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		if r.Email == "" {
			continue
		}
		result[r.OrgID] = append(result[r.OrgID], r.Email)
	}
	return result, nil
}
