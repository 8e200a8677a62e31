package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/repositories"
	mem "coivault/pkg/memcache"
	"coivault/pkg/metrics"
	"coivault/pkg/utils"
)

type DocumentService interface {
	CreateDocument(ctx context.Context, org OrgContext, req request_models.CreateDocumentRequest) (uuid.UUID, error)
	DeleteDocument(ctx context.Context, org OrgContext, documentID uuid.UUID) error
}

type documentService struct {
	docRepo    repositories.DocumentRepository
	vendorRepo repositories.VendorRepository
	subRepo    repositories.SubscriptionRepository
	audit      AuditService
	cache      mem.ViewCache
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewDocumentService(
	docRepo repositories.DocumentRepository,
	vendorRepo repositories.VendorRepository,
	subRepo repositories.SubscriptionRepository,
	audit AuditService,
	cache mem.ViewCache,
	m *metrics.Metrics,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		docRepo:    docRepo,
		vendorRepo: vendorRepo,
		subRepo:    subRepo,
		audit:      audit,
		cache:      cache,
		metrics:    m,
		log:        log.Named("documents"),
	}
}

func (d *documentService) CreateDocument(ctx context.Context, org OrgContext, req request_models.CreateDocumentRequest) (uuid.UUID, error) {
	if org.OrgID == uuid.Nil {
		return uuid.Nil, utils.ErrNoOrganization
	}

	req.Title = strings.TrimSpace(req.Title)
	req.URL = strings.TrimSpace(req.URL)
	req.VendorID = strings.TrimSpace(req.VendorID)
	if err := utils.ValidateStruct(req); err != nil {
		return uuid.Nil, err
	}
	expiry, err := utils.ParseDate(req.ExpiryDate)
	if err != nil {
		return uuid.Nil, utils.NewValidationError("Invalid date")
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return uuid.Nil, utils.ErrVendorNotFound
	}

	vendor, err := d.vendorRepo.FindByID(ctx, org.OrgID, vendorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: find vendor: %v", utils.ErrDatabaseError, err)
	}
	if vendor == nil {
		return uuid.Nil, utils.ErrVendorNotFound
	}

	plan, err := currentPlan(ctx, d.subRepo, org.OrgID)
	if err != nil {
		return uuid.Nil, err
	}
	count, err := d.docRepo.CountByOrg(ctx, org.OrgID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: count documents: %v", utils.ErrDatabaseError, err)
	}
	if !CanAddDocument(plan, count) {
		if d.metrics != nil {
			d.metrics.QuotaDenied(string(ResourceDocuments), string(plan))
		}
		return uuid.Nil, utils.ErrDocumentLimitReached
	}

	doc := &db_models.Document{
		VendorID:   vendor.ID,
		Title:      req.Title,
		Type:       db_models.DocumentType(req.Type),
		URL:        req.URL,
		ExpiryDate: expiry,
	}
	if err := d.docRepo.Create(ctx, doc); err != nil {
		return uuid.Nil, fmt.Errorf("%w: create document: %v", utils.ErrDatabaseError, err)
	}

	d.audit.Record(ctx, db_models.AuditDocumentAdded, org.OrgID, org.userRef(),
		fmt.Sprintf("Document %q added to vendor %q", doc.Title, vendor.Name))
	invalidateOrgViews(d.cache, org.OrgID)

	return doc.ID, nil
}

func (d *documentService) DeleteDocument(ctx context.Context, org OrgContext, documentID uuid.UUID) error {
	if org.OrgID == uuid.Nil {
		return utils.ErrNoOrganization
	}

	doc, err := d.docRepo.FindByID(ctx, org.OrgID, documentID)
	if err != nil {
		return fmt.Errorf("%w: find document: %v", utils.ErrDatabaseError, err)
	}
	if doc == nil {
		return utils.ErrDocumentNotFound
	}

	if err := d.docRepo.SoftDelete(ctx, doc.ID); err != nil {
		return fmt.Errorf("%w: delete document: %v", utils.ErrDatabaseError, err)
	}

	d.audit.Record(ctx, db_models.AuditDocumentDeleted, org.OrgID, org.userRef(),
		fmt.Sprintf("Document %q deleted from vendor %q", doc.Title, doc.Vendor.Name))
	invalidateOrgViews(d.cache, org.OrgID)

	return nil
}
