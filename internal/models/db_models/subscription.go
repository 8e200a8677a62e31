package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "ACTIVE"
	SubStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubStatusCanceled SubscriptionStatus = "CANCELED"
	SubStatusTrialing SubscriptionStatus = "TRIALING"
)

// Subscription is 1:1 with Organization. Provider identifiers stay nil until
// the first completed checkout.
type Subscription struct {
	BaseModel
	OrgID  uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"orgId"`
	Plan   Plan               `gorm:"type:varchar(16);not null;default:FREE" json:"plan"`
	Status SubscriptionStatus `gorm:"type:varchar(16);not null;default:ACTIVE;index" json:"status"`

	StripeCustomerID     *string `gorm:"uniqueIndex" json:"-"`
	StripeSubscriptionID *string `gorm:"uniqueIndex" json:"-"`
	StripePriceID        *string `json:"-"`

	CurrentPeriodStart *time.Time `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd  bool       `gorm:"not null;default:false" json:"cancelAtPeriodEnd"`
}
