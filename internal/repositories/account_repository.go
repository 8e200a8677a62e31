package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coivault/internal/models/db_models"
)

type AccountRepository interface {
	// SignUp creates the user, the organization, an OWNER membership and a
	// FREE/ACTIVE subscription in one transaction. Either all four rows
	// exist afterwards or none do.
	SignUp(ctx context.Context, user *db_models.User, orgName string) (*db_models.Organization, error)
	FindById(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	// EmailTaken also counts soft-deleted users: their emails stay reserved.
	EmailTaken(ctx context.Context, email string) (bool, error)
	// SoftDeleteAccount marks both the user and the organization deleted.
	SoftDeleteAccount(ctx context.Context, userID, orgID uuid.UUID) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) SignUp(ctx context.Context, user *db_models.User, orgName string) (*db_models.Organization, error) {
	org := &db_models.Organization{Name: orgName}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		membership := &db_models.Membership{
			UserID: user.ID,
			OrgID:  org.ID,
			Role:   db_models.RoleOwner,
		}
		if err := tx.Create(membership).Error; err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		subscription := &db_models.Subscription{
			OrgID:  org.ID,
			Plan:   db_models.PlanFree,
			Status: db_models.SubStatusActive,
		}
		if err := tx.Create(subscription).Error; err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		org.Subscription = subscription
		return nil
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := a.db.WithContext(ctx).First(&user, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	var user db_models.User
	err := a.db.WithContext(ctx).First(&user, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (a *accountRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Unscoped().
		Model(&db_models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (a *accountRepository) SoftDeleteAccount(ctx context.Context, userID, orgID uuid.UUID) error {
	now := time.Now().UTC()
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.User{}).
			Where("id = ?", userID).
			Update("deleted_at", now).Error; err != nil {
			return fmt.Errorf("soft delete user: %w", err)
		}
		if err := tx.Model(&db_models.Organization{}).
			Where("id = ?", orgID).
			Update("deleted_at", now).Error; err != nil {
			return fmt.Errorf("soft delete organization: %w", err)
		}
		return nil
	})
}
