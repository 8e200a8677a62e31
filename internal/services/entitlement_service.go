package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/internal/models/db_models"
	"coivault/internal/repositories"
	mem "coivault/pkg/memcache"
)

// ExternalSubscription is the provider's view of a subscription, reduced to
// the fields that drive entitlements.
type ExternalSubscription struct {
	ID                 string
	CustomerID         string
	Status             string
	PriceID            string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
}

// CheckoutCompleted is a finished hosted checkout. OrgID comes from the
// session metadata set when the session was created.
type CheckoutCompleted struct {
	OrgID          string
	CustomerID     string
	SubscriptionID string
}

type EntitlementService interface {
	CheckoutCompleted(ctx context.Context, event CheckoutCompleted) error
	SubscriptionUpdated(ctx context.Context, sub ExternalSubscription) error
	SubscriptionDeleted(ctx context.Context, subscriptionID string) error
	PaymentFailed(ctx context.Context, subscriptionID string) error
	PlanForPrice(priceID string) db_models.Plan
}

type entitlementService struct {
	subRepo repositories.SubscriptionRepository
	audit   AuditService
	gateway BillingGateway
	cache   mem.ViewCache
	prices  config.StripeConfig
	log     *zap.Logger
}

func NewEntitlementService(
	subRepo repositories.SubscriptionRepository,
	audit AuditService,
	gateway BillingGateway,
	cache mem.ViewCache,
	cfg *config.Config,
	log *zap.Logger,
) EntitlementService {
	return &entitlementService{
		subRepo: subRepo,
		audit:   audit,
		gateway: gateway,
		cache:   cache,
		prices:  cfg.Stripe,
		log:     log.Named("entitlements"),
	}
}

// PlanForPrice resolves a provider price id against the configured PRO and
// TEAM prices. Anything else, including an empty id, is FREE.
func (e *entitlementService) PlanForPrice(priceID string) db_models.Plan {
	return planForPrice(priceID, e.prices)
}

func planForPrice(priceID string, prices config.StripeConfig) db_models.Plan {
	switch {
	case priceID == "":
		return db_models.PlanFree
	case priceID == prices.ProPriceID:
		return db_models.PlanPro
	case priceID == prices.TeamPriceID:
		return db_models.PlanTeam
	default:
		return db_models.PlanFree
	}
}

// MapSubscriptionStatus converts a provider status. The second result is
// false for statuses this service does not know, which map to ACTIVE.
func MapSubscriptionStatus(status string) (db_models.SubscriptionStatus, bool) {
	switch stripe.SubscriptionStatus(status) {
	case stripe.SubscriptionStatusPastDue:
		return db_models.SubStatusPastDue, true
	case stripe.SubscriptionStatusCanceled:
		return db_models.SubStatusCanceled, true
	case stripe.SubscriptionStatusTrialing:
		return db_models.SubStatusTrialing, true
	case stripe.SubscriptionStatusActive,
		stripe.SubscriptionStatusIncomplete,
		stripe.SubscriptionStatusIncompleteExpired,
		stripe.SubscriptionStatusUnpaid,
		stripe.SubscriptionStatusPaused:
		return db_models.SubStatusActive, true
	default:
		return db_models.SubStatusActive, false
	}
}

// enforceCanceledIsFree keeps a canceled subscription off paid plans.
func enforceCanceledIsFree(sub *db_models.Subscription) {
	if sub.Status == db_models.SubStatusCanceled {
		sub.Plan = db_models.PlanFree
	}
}

func applyCheckout(sub *db_models.Subscription, ext ExternalSubscription, customerID string, plan db_models.Plan) {
	sub.Plan = plan
	sub.Status = db_models.SubStatusActive
	sub.StripeSubscriptionID = optionalString(ext.ID)
	if customerID != "" {
		sub.StripeCustomerID = optionalString(customerID)
	}
	sub.StripePriceID = optionalString(ext.PriceID)
	sub.CurrentPeriodStart = ext.CurrentPeriodStart
	sub.CurrentPeriodEnd = ext.CurrentPeriodEnd
	enforceCanceledIsFree(sub)
}

func applySubscriptionUpdate(sub *db_models.Subscription, ext ExternalSubscription, plan db_models.Plan, status db_models.SubscriptionStatus) {
	sub.Plan = plan
	sub.Status = status
	sub.StripePriceID = optionalString(ext.PriceID)
	sub.CurrentPeriodStart = ext.CurrentPeriodStart
	sub.CurrentPeriodEnd = ext.CurrentPeriodEnd
	sub.CancelAtPeriodEnd = ext.CancelAtPeriodEnd
	enforceCanceledIsFree(sub)
}

func applySubscriptionDeleted(sub *db_models.Subscription) {
	sub.Plan = db_models.PlanFree
	sub.Status = db_models.SubStatusCanceled
	sub.CancelAtPeriodEnd = false
}

func applyPaymentFailed(sub *db_models.Subscription) {
	sub.Status = db_models.SubStatusPastDue
}

func (e *entitlementService) CheckoutCompleted(ctx context.Context, event CheckoutCompleted) error {
	if event.OrgID == "" || event.SubscriptionID == "" {
		e.log.Debug("Checkout event without organization or subscription, ignoring")
		return nil
	}
	orgID, err := uuid.Parse(event.OrgID)
	if err != nil {
		e.log.Warn("Checkout event with malformed organization id", zap.String("org_id", event.OrgID))
		return nil
	}

	ext, err := e.gateway.GetSubscription(ctx, event.SubscriptionID)
	if err != nil {
		return fmt.Errorf("retrieve subscription %s: %w", event.SubscriptionID, err)
	}
	customerID := event.CustomerID
	if customerID == "" {
		customerID = ext.CustomerID
	}
	plan := e.PlanForPrice(ext.PriceID)

	before, after, err := e.subRepo.UpdateByOrgID(ctx, orgID, func(sub *db_models.Subscription) error {
		applyCheckout(sub, *ext, customerID, plan)
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply checkout: %w", err)
	}

	e.recordTransition(ctx, before, after, fmt.Sprintf("Subscription upgraded to %s", plan))
	return nil
}

func (e *entitlementService) SubscriptionUpdated(ctx context.Context, ext ExternalSubscription) error {
	plan := e.PlanForPrice(ext.PriceID)
	status, known := MapSubscriptionStatus(ext.Status)
	if !known {
		e.log.Warn("Unknown subscription status, treating as ACTIVE",
			zap.String("status", ext.Status),
			zap.String("subscription_id", ext.ID))
	}

	before, after, err := e.subRepo.UpdateByStripeSubscriptionID(ctx, ext.ID, func(sub *db_models.Subscription) error {
		applySubscriptionUpdate(sub, ext, plan, status)
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply subscription update: %w", err)
	}
	if after == nil {
		return nil
	}

	e.recordTransition(ctx, before, after, fmt.Sprintf("Subscription updated to %s (%s)", after.Plan, after.Status))
	return nil
}

func (e *entitlementService) SubscriptionDeleted(ctx context.Context, subscriptionID string) error {
	before, after, err := e.subRepo.UpdateByStripeSubscriptionID(ctx, subscriptionID, func(sub *db_models.Subscription) error {
		applySubscriptionDeleted(sub)
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply subscription deletion: %w", err)
	}

	e.recordTransition(ctx, before, after, "Subscription canceled, reverted to FREE plan")
	return nil
}

func (e *entitlementService) PaymentFailed(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return nil
	}
	before, after, err := e.subRepo.UpdateByStripeSubscriptionID(ctx, subscriptionID, func(sub *db_models.Subscription) error {
		applyPaymentFailed(sub)
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply payment failure: %w", err)
	}

	e.recordTransition(ctx, before, after, "Payment failed, subscription marked PAST_DUE")
	return nil
}

// recordTransition drops the tenant's cached views after any applied update
// and audits a change of plan or status. Nothing is audited when no row
// matched or the update left both unchanged.
func (e *entitlementService) recordTransition(ctx context.Context, before, after *db_models.Subscription, details string) {
	if before == nil || after == nil {
		return
	}
	invalidateOrgViews(e.cache, after.OrgID)

	if before.Plan == after.Plan && before.Status == after.Status {
		return
	}

	e.log.Info("Subscription transitioned",
		zap.String("org_id", after.OrgID.String()),
		zap.String("from_plan", string(before.Plan)),
		zap.String("to_plan", string(after.Plan)),
		zap.String("from_status", string(before.Status)),
		zap.String("to_status", string(after.Status)))
	e.audit.Record(ctx, db_models.AuditSubscriptionUpdated, after.OrgID, nil, details)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
