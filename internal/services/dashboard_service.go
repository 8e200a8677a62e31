package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coivault/internal/models/response_models"
	"coivault/internal/repositories"
	mem "coivault/pkg/memcache"
	"coivault/pkg/utils"
)

const (
	dashboardTTL          = time.Minute
	dashboardWindow       = 30 * day
	dashboardExpiringSize = 10
)

type DashboardService interface {
	// GetDashboard returns counts, the soonest expiring documents within 30
	// days (expired ones included) and the plan summary. Results are cached
	// per organization until a write invalidates them.
	GetDashboard(ctx context.Context, org OrgContext) (*response_models.DashboardResponse, error)
}

type dashboardService struct {
	vendorRepo repositories.VendorRepository
	docRepo    repositories.DocumentRepository
	subRepo    repositories.SubscriptionRepository
	cache      mem.ViewCache
	log        *zap.Logger
	now        func() time.Time
}

func NewDashboardService(
	vendorRepo repositories.VendorRepository,
	docRepo repositories.DocumentRepository,
	subRepo repositories.SubscriptionRepository,
	cache mem.ViewCache,
	log *zap.Logger,
) DashboardService {
	return &dashboardService{
		vendorRepo: vendorRepo,
		docRepo:    docRepo,
		subRepo:    subRepo,
		cache:      cache,
		log:        log.Named("dashboard"),
		now:        time.Now,
	}
}

func orgViewPrefix(orgID uuid.UUID) string {
	return orgID.String() + ":"
}

func dashboardKey(orgID uuid.UUID) string {
	return orgViewPrefix(orgID) + "dashboard"
}

// invalidateOrgViews drops every cached view of one organization.
func invalidateOrgViews(cache mem.ViewCache, orgID uuid.UUID) {
	if cache == nil {
		return
	}
	cache.DeletePrefix(orgViewPrefix(orgID))
}

func (s *dashboardService) GetDashboard(ctx context.Context, org OrgContext) (*response_models.DashboardResponse, error) {
	key := dashboardKey(org.OrgID)
	if cached, ok := s.cache.Get(key); ok {
		if resp, ok := cached.(*response_models.DashboardResponse); ok {
			return resp, nil
		}
	}

	now := s.now()

	vendorCount, err := s.vendorRepo.CountByOrg(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: count vendors: %v", utils.ErrDatabaseError, err)
	}
	documentCount, err := s.docRepo.CountByOrg(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: count documents: %v", utils.ErrDatabaseError, err)
	}
	expiring, err := s.docRepo.ListExpiringForOrg(ctx, org.OrgID, now.Add(dashboardWindow), dashboardExpiringSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list expiring documents: %v", utils.ErrDatabaseError, err)
	}
	plan, err := currentPlan(ctx, s.subRepo, org.OrgID)
	if err != nil {
		return nil, err
	}

	docs := make([]response_models.DocumentResponse, 0, len(expiring))
	for i := range expiring {
		docs = append(docs, toDocumentResponse(&expiring[i], expiring[i].Vendor.Name, now))
	}

	resp := &response_models.DashboardResponse{
		OrganizationName: org.OrgName,
		VendorCount:      vendorCount,
		DocumentCount:    documentCount,
		ExpiringCount:    len(docs),
		Expiring:         docs,
		Plan:             toPlanInfo(GetPlanDisplay(plan)),
	}

	s.cache.Set(key, resp, dashboardTTL)
	return resp, nil
}

func toPlanInfo(d PlanDisplay) response_models.PlanInfo {
	return response_models.PlanInfo{
		Plan:        string(d.Plan),
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
	}
}
