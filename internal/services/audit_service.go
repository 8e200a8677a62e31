package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coivault/internal/models/db_models"
	"coivault/internal/models/response_models"
	"coivault/internal/repositories"
	"coivault/pkg/utils"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

type AuditService interface {
	// Record appends one entry. Failures are logged and never returned.
	Record(ctx context.Context, action db_models.AuditAction, orgID uuid.UUID, userID *uuid.UUID, details string)
	List(ctx context.Context, org OrgContext, page, pageSize int) (*response_models.AuditLogPage, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
	log       *zap.Logger
}

func NewAuditService(auditRepo repositories.AuditRepository, log *zap.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		log:       log.Named("audit"),
	}
}

func (a *auditService) Record(ctx context.Context, action db_models.AuditAction, orgID uuid.UUID, userID *uuid.UUID, details string) {
	entry := &db_models.AuditLog{
		Action: action,
		OrgID:  orgID,
		UserID: userID,
	}
	if details != "" {
		entry.Details = &details
	}

	if err := a.auditRepo.Create(ctx, entry); err != nil {
		a.log.Error("Failed to create audit log",
			zap.String("action", string(action)),
			zap.String("org_id", orgID.String()),
			zap.Error(err))
	}
}

func (a *auditService) List(ctx context.Context, org OrgContext, page, pageSize int) (*response_models.AuditLogPage, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultAuditPageSize
	}
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxAuditPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	entries, total, err := a.auditRepo.ListByOrg(ctx, org.OrgID, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	items := make([]response_models.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, response_models.AuditLogResponse{
			ID:        e.ID.String(),
			Action:    string(e.Action),
			UserID:    e.UserID,
			Details:   e.Details,
			CreatedAt: e.CreatedAt,
		})
	}

	return &response_models.AuditLogPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}
