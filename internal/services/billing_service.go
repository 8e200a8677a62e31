package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/repositories"
	"coivault/pkg/utils"
)

type CheckoutSessionRequest struct {
	CustomerID string
	PriceID    string
	OrgID      string
	SuccessURL string
	CancelURL  string
}

// BillingGateway is the outbound side of the billing provider.
type BillingGateway interface {
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*ExternalSubscription, error)
}

type BillingService interface {
	// CreateCheckout returns the hosted checkout URL for upgrading to plan.
	CreateCheckout(ctx context.Context, org OrgContext, req request_models.CheckoutRequest) (string, error)
	// CreatePortal returns the hosted billing management URL.
	CreatePortal(ctx context.Context, org OrgContext) (string, error)
}

type billingService struct {
	subRepo repositories.SubscriptionRepository
	gateway BillingGateway
	cfg     *config.Config
	log     *zap.Logger
}

func NewBillingService(subRepo repositories.SubscriptionRepository, gateway BillingGateway, cfg *config.Config, log *zap.Logger) BillingService {
	return &billingService{
		subRepo: subRepo,
		gateway: gateway,
		cfg:     cfg,
		log:     log.Named("billing"),
	}
}

func (b *billingService) priceFor(plan db_models.Plan) string {
	switch plan {
	case db_models.PlanPro:
		return b.cfg.Stripe.ProPriceID
	case db_models.PlanTeam:
		return b.cfg.Stripe.TeamPriceID
	default:
		return ""
	}
}

func (b *billingService) CreateCheckout(ctx context.Context, org OrgContext, req request_models.CheckoutRequest) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", err
	}

	priceID := b.priceFor(db_models.Plan(req.Plan))
	if priceID == "" {
		return "", utils.ErrInvalidPlan
	}

	sub, err := b.subRepo.FindByOrgID(ctx, org.OrgID)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if sub == nil {
		return "", utils.ErrSubscriptionNotFound
	}

	var customerID string
	if sub.StripeCustomerID != nil {
		customerID = *sub.StripeCustomerID
	} else {
		customerID, err = b.gateway.CreateCustomer(ctx, org.Email, map[string]string{
			"orgId":  org.OrgID.String(),
			"userId": org.UserID.String(),
		})
		if err != nil {
			return "", b.gatewayError("create customer", org, err)
		}
		if err := b.subRepo.SetStripeCustomerID(ctx, sub.ID, customerID); err != nil {
			return "", fmt.Errorf("%w: store customer id: %v", utils.ErrDatabaseError, err)
		}
	}

	url, err := b.gateway.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		OrgID:      org.OrgID.String(),
		SuccessURL: b.cfg.AppURL + "/dashboard/settings?success=true",
		CancelURL:  b.cfg.AppURL + "/dashboard/settings?canceled=true",
	})
	if err != nil {
		return "", b.gatewayError("create checkout session", org, err)
	}
	if url == "" {
		return "", utils.ErrBillingUnavailable
	}

	return url, nil
}

func (b *billingService) CreatePortal(ctx context.Context, org OrgContext) (string, error) {
	sub, err := b.subRepo.FindByOrgID(ctx, org.OrgID)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if sub == nil || sub.StripeCustomerID == nil {
		return "", utils.ErrNoBillingAccount
	}

	url, err := b.gateway.CreatePortalSession(ctx, *sub.StripeCustomerID, b.cfg.AppURL+"/dashboard/settings")
	if err != nil {
		return "", b.gatewayError("create portal session", org, err)
	}
	if url == "" {
		return "", utils.ErrBillingUnavailable
	}

	return url, nil
}

func (b *billingService) gatewayError(op string, org OrgContext, err error) error {
	if errors.Is(err, utils.ErrBillingUnavailable) {
		return err
	}
	b.log.Error("Billing provider call failed",
		zap.String("operation", op),
		zap.String("org_id", org.OrgID.String()),
		zap.Error(err))
	return fmt.Errorf("%w: %s: %v", utils.ErrBillingUnavailable, op, err)
}
