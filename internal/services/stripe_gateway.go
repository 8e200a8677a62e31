package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"coivault/internal/config"
	"coivault/pkg/utils"
)

type stripeGateway struct {
	api *client.API
}

// NewBillingGateway returns a Stripe-backed gateway, or one that reports
// billing as unavailable when no secret key is configured.
func NewBillingGateway(cfg *config.Config) BillingGateway {
	key := strings.TrimSpace(cfg.Stripe.SecretKey)
	if key == "" {
		return disabledGateway{}
	}
	return &stripeGateway{api: client.New(key, nil)}
}

func (s *stripeGateway) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripe.String(email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := s.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (s *stripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(req.CustomerID),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("orgId", req.OrgID)

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (s *stripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (s *stripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*ExternalSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := s.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	return externalFromStripe(sub), nil
}

// externalFromStripe reads price and billing period from the first item;
// newer API versions no longer carry the period on the subscription itself.
func externalFromStripe(sub *stripe.Subscription) *ExternalSubscription {
	ext := &ExternalSubscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		ext.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			ext.PriceID = item.Price.ID
		}
		ext.CurrentPeriodStart = utils.FromUnixSeconds(item.CurrentPeriodStart)
		ext.CurrentPeriodEnd = utils.FromUnixSeconds(item.CurrentPeriodEnd)
	}
	return ext
}

type disabledGateway struct{}

func (disabledGateway) CreateCustomer(context.Context, string, map[string]string) (string, error) {
	return "", fmt.Errorf("%w: stripe secret key not configured", utils.ErrBillingUnavailable)
}

func (disabledGateway) CreateCheckoutSession(context.Context, CheckoutSessionRequest) (string, error) {
	return "", fmt.Errorf("%w: stripe secret key not configured", utils.ErrBillingUnavailable)
}

func (disabledGateway) CreatePortalSession(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: stripe secret key not configured", utils.ErrBillingUnavailable)
}

func (disabledGateway) GetSubscription(context.Context, string) (*ExternalSubscription, error) {
	return nil, fmt.Errorf("%w: stripe secret key not configured", utils.ErrBillingUnavailable)
}
