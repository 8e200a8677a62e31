package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coivault/internal/models/db_models"
)

// SubscriptionMutator edits a subscription in place inside a transaction.
type SubscriptionMutator func(sub *db_models.Subscription) error

type SubscriptionRepository interface {
	FindByOrgID(ctx context.Context, orgID uuid.UUID) (*db_models.Subscription, error)
	FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*db_models.Subscription, error)
	SetStripeCustomerID(ctx context.Context, subscriptionID uuid.UUID, customerID string) error
	// UpdateByOrgID and UpdateByStripeSubscriptionID load the subscription,
	// apply fn and persist the result in one transaction. They return the
	// state before and after the change, or (nil, nil, nil) when no row
	// matches.
	UpdateByOrgID(ctx context.Context, orgID uuid.UUID, fn SubscriptionMutator) (before, after *db_models.Subscription, err error)
	UpdateByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string, fn SubscriptionMutator) (before, after *db_models.Subscription, err error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (s *subscriptionRepository) FindByOrgID(ctx context.Context, orgID uuid.UUID) (*db_models.Subscription, error) {
	return s.findOne(s.db.WithContext(ctx), "org_id = ?", orgID)
}

func (s *subscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*db_models.Subscription, error) {
	if stripeSubscriptionID == "" {
		return nil, nil
	}
	return s.findOne(s.db.WithContext(ctx), "stripe_subscription_id = ?", stripeSubscriptionID)
}

func (s *subscriptionRepository) SetStripeCustomerID(ctx context.Context, subscriptionID uuid.UUID, customerID string) error {
	return s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", subscriptionID).
		Update("stripe_customer_id", customerID).Error
}

func (s *subscriptionRepository) UpdateByOrgID(ctx context.Context, orgID uuid.UUID, fn SubscriptionMutator) (*db_models.Subscription, *db_models.Subscription, error) {
	return s.update(ctx, fn, "org_id = ?", orgID)
}

func (s *subscriptionRepository) UpdateByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string, fn SubscriptionMutator) (*db_models.Subscription, *db_models.Subscription, error) {
	if stripeSubscriptionID == "" {
		return nil, nil, nil
	}
	return s.update(ctx, fn, "stripe_subscription_id = ?", stripeSubscriptionID)
}

func (s *subscriptionRepository) update(ctx context.Context, fn SubscriptionMutator, query string, args ...any) (*db_models.Subscription, *db_models.Subscription, error) {
	var before, after *db_models.Subscription

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.findOne(tx, query, args...)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}

		snapshot := *current
		if err := fn(current); err != nil {
			return err
		}
		if err := tx.Save(current).Error; err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}

		before, after = &snapshot, current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}

func (s *subscriptionRepository) findOne(db *gorm.DB, query string, args ...any) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := db.Where(query, args...).First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}
