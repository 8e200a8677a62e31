package db_models

import "github.com/google/uuid"

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type User struct {
	BaseModel
	Name         string
	Email        string `gorm:"uniqueIndex;size:320"`
	PasswordHash string `json:"-"`

	Memberships []Membership `json:"-"`
}

// Organization is the tenant: the unit of data isolation.
type Organization struct {
	BaseModel
	Name string `gorm:"size:200;not null"`

	Subscription *Subscription `gorm:"foreignKey:OrgID" json:"subscription,omitempty"`
	Memberships  []Membership  `gorm:"foreignKey:OrgID" json:"-"`
	Vendors      []Vendor      `gorm:"foreignKey:OrgID" json:"-"`
}

type Membership struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_org"`
	OrgID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_user_org;index"`
	Role   Role      `gorm:"type:varchar(16);not null;default:MEMBER"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrgID" json:"-"`
}
