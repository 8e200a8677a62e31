package response_models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID        string     `json:"id"`
	Action    string     `json:"action"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Details   *string    `json:"details,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type AuditLogPage struct {
	Items    []AuditLogResponse `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Total    int64              `json:"total"`
}
