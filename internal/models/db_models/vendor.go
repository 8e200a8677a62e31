package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Vendor struct {
	BaseModel
	OrgID   uuid.UUID `gorm:"type:uuid;not null;index" json:"orgId"`
	Name    string    `gorm:"size:200;not null" json:"name"`
	Email   *string   `json:"email,omitempty"`
	Phone   *string   `json:"phone,omitempty"`
	Company *string   `json:"company,omitempty"`
	Notes   *string   `json:"notes,omitempty"`

	Organization Organization `gorm:"foreignKey:OrgID" json:"-"`
	Documents    []Document   `gorm:"foreignKey:VendorID" json:"documents,omitempty"`
}

type DocumentType string

const (
	DocumentTypeCOI   DocumentType = "COI"
	DocumentTypeWSIB  DocumentType = "WSIB"
	DocumentTypeOther DocumentType = "OTHER"
)

// Document is a compliance document attached to a vendor. ExpiryDate has no
// floor: a past date is valid and means the document is already expired.
type Document struct {
	BaseModel
	VendorID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"vendorId"`
	Title      string       `gorm:"size:200;not null" json:"title"`
	Type       DocumentType `gorm:"type:varchar(16);not null" json:"type"`
	URL        string       `gorm:"not null" json:"url"`
	ExpiryDate time.Time    `gorm:"not null;index" json:"expiryDate"`

	Vendor Vendor `gorm:"foreignKey:VendorID" json:"-"`
}
