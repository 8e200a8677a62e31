package services

import (
	"github.com/google/uuid"

	"coivault/internal/models/db_models"
)

// OrgContext is the authenticated caller and the tenant they act in. It is
// resolved once per request from the caller's membership and passed to every
// tenant-scoped operation.
type OrgContext struct {
	UserID  uuid.UUID
	Email   string
	OrgID   uuid.UUID
	OrgName string
	Role    db_models.Role
}

func (o OrgContext) IsOwner() bool {
	return o.Role == db_models.RoleOwner
}

func (o OrgContext) userRef() *uuid.UUID {
	if o.UserID == uuid.Nil {
		return nil
	}
	id := o.UserID
	return &id
}
