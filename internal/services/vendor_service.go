package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/models/response_models"
	"coivault/internal/repositories"
	mem "coivault/pkg/memcache"
	"coivault/pkg/metrics"
	"coivault/pkg/utils"
)

type VendorService interface {
	CreateVendor(ctx context.Context, org OrgContext, req request_models.CreateVendorRequest) (uuid.UUID, error)
	ListVendors(ctx context.Context, org OrgContext) ([]response_models.VendorResponse, error)
	GetVendor(ctx context.Context, org OrgContext, vendorID uuid.UUID) (*response_models.VendorResponse, error)
	DeleteVendor(ctx context.Context, org OrgContext, vendorID uuid.UUID) error
}

type vendorService struct {
	vendorRepo repositories.VendorRepository
	subRepo    repositories.SubscriptionRepository
	audit      AuditService
	cache      mem.ViewCache
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

func NewVendorService(
	vendorRepo repositories.VendorRepository,
	subRepo repositories.SubscriptionRepository,
	audit AuditService,
	cache mem.ViewCache,
	m *metrics.Metrics,
	log *zap.Logger,
) VendorService {
	return &vendorService{
		vendorRepo: vendorRepo,
		subRepo:    subRepo,
		audit:      audit,
		cache:      cache,
		metrics:    m,
		log:        log.Named("vendors"),
		now:        time.Now,
	}
}

func (v *vendorService) CreateVendor(ctx context.Context, org OrgContext, req request_models.CreateVendorRequest) (uuid.UUID, error) {
	if org.OrgID == uuid.Nil {
		return uuid.Nil, utils.ErrNoOrganization
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Company = strings.TrimSpace(req.Company)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := utils.ValidateStruct(req); err != nil {
		return uuid.Nil, err
	}

	plan, err := currentPlan(ctx, v.subRepo, org.OrgID)
	if err != nil {
		return uuid.Nil, err
	}
	count, err := v.vendorRepo.CountByOrg(ctx, org.OrgID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: count vendors: %v", utils.ErrDatabaseError, err)
	}
	if !CanAddVendor(plan, count) {
		if v.metrics != nil {
			v.metrics.QuotaDenied(string(ResourceVendors), string(plan))
		}
		return uuid.Nil, utils.ErrVendorLimitReached
	}

	vendor := &db_models.Vendor{
		OrgID:   org.OrgID,
		Name:    req.Name,
		Email:   optionalString(req.Email),
		Phone:   optionalString(req.Phone),
		Company: optionalString(req.Company),
		Notes:   optionalString(req.Notes),
	}
	if err := v.vendorRepo.Create(ctx, vendor); err != nil {
		return uuid.Nil, fmt.Errorf("%w: create vendor: %v", utils.ErrDatabaseError, err)
	}

	v.audit.Record(ctx, db_models.AuditVendorCreated, org.OrgID, org.userRef(),
		fmt.Sprintf("Vendor %q created", vendor.Name))
	invalidateOrgViews(v.cache, org.OrgID)

	return vendor.ID, nil
}

func (v *vendorService) ListVendors(ctx context.Context, org OrgContext) ([]response_models.VendorResponse, error) {
	vendors, err := v.vendorRepo.ListByOrg(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: list vendors: %v", utils.ErrDatabaseError, err)
	}

	now := v.now()
	result := make([]response_models.VendorResponse, 0, len(vendors))
	for i := range vendors {
		result = append(result, toVendorResponse(&vendors[i], now))
	}
	return result, nil
}

func (v *vendorService) GetVendor(ctx context.Context, org OrgContext, vendorID uuid.UUID) (*response_models.VendorResponse, error) {
	vendor, err := v.vendorRepo.FindByIDWithDocuments(ctx, org.OrgID, vendorID)
	if err != nil {
		return nil, fmt.Errorf("%w: get vendor: %v", utils.ErrDatabaseError, err)
	}
	if vendor == nil {
		return nil, utils.ErrVendorNotFound
	}

	resp := toVendorResponse(vendor, v.now())
	return &resp, nil
}

func (v *vendorService) DeleteVendor(ctx context.Context, org OrgContext, vendorID uuid.UUID) error {
	if org.OrgID == uuid.Nil {
		return utils.ErrNoOrganization
	}

	vendor, err := v.vendorRepo.FindByID(ctx, org.OrgID, vendorID)
	if err != nil {
		return fmt.Errorf("%w: find vendor: %v", utils.ErrDatabaseError, err)
	}
	if vendor == nil {
		return utils.ErrVendorNotFound
	}

	if err := v.vendorRepo.SoftDelete(ctx, vendor.ID); err != nil {
		return fmt.Errorf("%w: delete vendor: %v", utils.ErrDatabaseError, err)
	}

	v.audit.Record(ctx, db_models.AuditVendorDeleted, org.OrgID, org.userRef(),
		fmt.Sprintf("Vendor %q deleted", vendor.Name))
	invalidateOrgViews(v.cache, org.OrgID)

	return nil
}

func currentPlan(ctx context.Context, subRepo repositories.SubscriptionRepository, orgID uuid.UUID) (db_models.Plan, error) {
	sub, err := subRepo.FindByOrgID(ctx, orgID)
	if err != nil {
		return "", fmt.Errorf("%w: load subscription: %v", utils.ErrDatabaseError, err)
	}
	if sub == nil {
		return db_models.PlanFree, nil
	}
	return sub.Plan, nil
}

func toVendorResponse(vendor *db_models.Vendor, now time.Time) response_models.VendorResponse {
	docs := make([]response_models.DocumentResponse, 0, len(vendor.Documents))
	for i := range vendor.Documents {
		docs = append(docs, toDocumentResponse(&vendor.Documents[i], vendor.Name, now))
	}
	return response_models.VendorResponse{
		ID:        vendor.ID.String(),
		Name:      vendor.Name,
		Email:     vendor.Email,
		Phone:     vendor.Phone,
		Company:   vendor.Company,
		Notes:     vendor.Notes,
		CreatedAt: vendor.CreatedAt,
		Documents: docs,
	}
}

func toDocumentResponse(doc *db_models.Document, vendorName string, now time.Time) response_models.DocumentResponse {
	status := ClassifyExpiry(doc.ExpiryDate, now)
	return response_models.DocumentResponse{
		ID:          doc.ID.String(),
		VendorID:    doc.VendorID.String(),
		VendorName:  vendorName,
		Title:       doc.Title,
		Type:        string(doc.Type),
		URL:         doc.URL,
		ExpiryDate:  doc.ExpiryDate,
		ExpiryClass: string(status.Class),
		DaysLeft:    status.DaysLeft,
		CreatedAt:   doc.CreatedAt,
	}
}
