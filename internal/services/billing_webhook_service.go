package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/internal/repositories"
	"coivault/pkg/metrics"
	"coivault/pkg/utils"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

const (
	EventCheckoutCompleted    = "checkout.session.completed"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

type BillingWebhookService interface {
	// Process verifies the signature over payload and applies the event.
	// ErrMissingSignature and ErrInvalidSignature are returned before any
	// state is read or written.
	Process(ctx context.Context, payload []byte, signature string) error
}

type billingWebhookService struct {
	secret       string
	entitlements EntitlementService
	events       repositories.BillingEventRepository
	metrics      *metrics.Metrics
	log          *zap.Logger
}

func NewBillingWebhookService(
	cfg *config.Config,
	entitlements EntitlementService,
	events repositories.BillingEventRepository,
	m *metrics.Metrics,
	log *zap.Logger,
) BillingWebhookService {
	return &billingWebhookService{
		secret:       cfg.Stripe.WebhookSecret,
		entitlements: entitlements,
		events:       events,
		metrics:      m,
		log:          log.Named("billing_webhook"),
	}
}

func (w *billingWebhookService) Process(ctx context.Context, payload []byte, signature string) error {
	start := time.Now()

	if strings.TrimSpace(signature) == "" || w.secret == "" {
		w.observe("unknown", "missing_signature", start)
		return ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, w.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		w.log.Warn("Webhook signature verification failed", zap.Error(err))
		w.observe("unknown", "invalid_signature", start)
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	log := w.log.With(zap.String("event_id", event.ID), zap.String("event_type", eventType))

	if event.ID != "" {
		seen, err := w.events.Exists(ctx, event.ID)
		if err != nil {
			w.observe(eventType, "error", start)
			return fmt.Errorf("%w: check event %s: %v", utils.ErrDatabaseError, event.ID, err)
		}
		if seen {
			log.Info("Webhook event already applied, skipping")
			w.observe(eventType, "duplicate", start)
			return nil
		}
	}

	handled, err := w.dispatch(ctx, event)
	if err != nil {
		log.Error("Webhook handler failed", zap.Error(err))
		w.observe(eventType, "error", start)
		return err
	}
	if !handled {
		w.observe(eventType, "ignored", start)
		return nil
	}

	if event.ID != "" {
		if err := w.events.Record(ctx, event.ID, eventType); err != nil {
			log.Warn("Failed to record applied webhook event", zap.Error(err))
		}
	}
	log.Info("Webhook event applied")
	w.observe(eventType, "applied", start)
	return nil
}

func (w *billingWebhookService) dispatch(ctx context.Context, event stripe.Event) (bool, error) {
	var raw json.RawMessage
	if event.Data != nil {
		raw = event.Data.Raw
	}

	switch string(event.Type) {
	case EventCheckoutCompleted:
		var session checkoutSessionPayload
		if err := json.Unmarshal(raw, &session); err != nil {
			return true, fmt.Errorf("decode checkout session: %w", err)
		}
		return true, w.entitlements.CheckoutCompleted(ctx, CheckoutCompleted{
			OrgID:          session.Metadata["orgId"],
			CustomerID:     session.Customer.ID,
			SubscriptionID: session.Subscription.ID,
		})

	case EventSubscriptionUpdated:
		var sub subscriptionPayload
		if err := json.Unmarshal(raw, &sub); err != nil {
			return true, fmt.Errorf("decode subscription: %w", err)
		}
		return true, w.entitlements.SubscriptionUpdated(ctx, sub.external())

	case EventSubscriptionDeleted:
		var sub subscriptionPayload
		if err := json.Unmarshal(raw, &sub); err != nil {
			return true, fmt.Errorf("decode subscription: %w", err)
		}
		return true, w.entitlements.SubscriptionDeleted(ctx, sub.ID)

	case EventInvoicePaymentFailed:
		var invoice invoicePayload
		if err := json.Unmarshal(raw, &invoice); err != nil {
			return true, fmt.Errorf("decode invoice: %w", err)
		}
		return true, w.entitlements.PaymentFailed(ctx, invoice.subscriptionID())

	default:
		return false, nil
	}
}

func (w *billingWebhookService) observe(eventType, outcome string, start time.Time) {
	if w.metrics != nil {
		w.metrics.WebhookDone(eventType, outcome, start)
	}
}

// objectRef decodes a provider reference that is either an id string or an
// expanded object with an "id" field.
type objectRef struct {
	ID string
}

func (r *objectRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	return nil
}

type checkoutSessionPayload struct {
	ID           string            `json:"id"`
	Customer     objectRef         `json:"customer"`
	Subscription objectRef         `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

type subscriptionPayload struct {
	ID                 string    `json:"id"`
	Customer           objectRef `json:"customer"`
	Status             string    `json:"status"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	CurrentPeriodStart int64     `json:"current_period_start"`
	CurrentPeriodEnd   int64     `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
			CurrentPeriodStart int64 `json:"current_period_start"`
			CurrentPeriodEnd   int64 `json:"current_period_end"`
		} `json:"data"`
	} `json:"items"`
}

// external reads the billing period from the subscription when present and
// otherwise from its first item.
func (s subscriptionPayload) external() ExternalSubscription {
	ext := ExternalSubscription{
		ID:                 s.ID,
		CustomerID:         s.Customer.ID,
		Status:             s.Status,
		CancelAtPeriodEnd:  s.CancelAtPeriodEnd,
		CurrentPeriodStart: utils.FromUnixSeconds(s.CurrentPeriodStart),
		CurrentPeriodEnd:   utils.FromUnixSeconds(s.CurrentPeriodEnd),
	}
	if len(s.Items.Data) > 0 {
		item := s.Items.Data[0]
		ext.PriceID = item.Price.ID
		if ext.CurrentPeriodStart == nil {
			ext.CurrentPeriodStart = utils.FromUnixSeconds(item.CurrentPeriodStart)
		}
		if ext.CurrentPeriodEnd == nil {
			ext.CurrentPeriodEnd = utils.FromUnixSeconds(item.CurrentPeriodEnd)
		}
	}
	return ext
}

type invoicePayload struct {
	ID           string    `json:"id"`
	Subscription objectRef `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription objectRef `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (i invoicePayload) subscriptionID() string {
	if i.Subscription.ID != "" {
		return i.Subscription.ID
	}
	if i.Parent != nil && i.Parent.SubscriptionDetails != nil {
		return i.Parent.SubscriptionDetails.Subscription.ID
	}
	return ""
}
