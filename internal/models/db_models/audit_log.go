package db_models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditVendorCreated       AuditAction = "VENDOR_CREATED"
	AuditVendorDeleted       AuditAction = "VENDOR_DELETED"
	AuditDocumentAdded       AuditAction = "DOCUMENT_ADDED"
	AuditDocumentDeleted     AuditAction = "DOCUMENT_DELETED"
	AuditSubscriptionUpdated AuditAction = "SUBSCRIPTION_UPDATED"
	AuditOrganizationUpdated AuditAction = "ORGANIZATION_UPDATED"
	AuditAccountDeleted      AuditAction = "ACCOUNT_DELETED"
)

var ErrAuditLogImmutable = errors.New("audit log entries are immutable")

// AuditLog is append-only: rows are never updated or deleted once written.
type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Action    AuditAction `gorm:"type:varchar(32);not null;index" json:"action"`
	OrgID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"orgId"`
	UserID    *uuid.UUID  `gorm:"type:uuid" json:"userId,omitempty"`
	Details   *string     `json:"details,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}
