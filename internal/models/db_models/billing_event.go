package db_models

import "time"

// BillingEvent records a provider webhook event that was applied
// successfully. Failed deliveries are not recorded, so provider retries
// reprocess them.
type BillingEvent struct {
	ID          string    `gorm:"primaryKey;size:255"`
	Type        string    `gorm:"size:128;not null;index"`
	ProcessedAt time.Time `gorm:"not null"`
}
