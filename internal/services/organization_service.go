package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/models/response_models"
	"coivault/internal/repositories"
	mem "coivault/pkg/memcache"
	"coivault/pkg/utils"
)

type OrganizationService interface {
	GetOrganization(ctx context.Context, org OrgContext) (*response_models.OrganizationResponse, error)
	UpdateOrganization(ctx context.Context, org OrgContext, req request_models.UpdateOrganizationRequest) error
}

type organizationService struct {
	orgRepo    repositories.OrganizationRepository
	vendorRepo repositories.VendorRepository
	docRepo    repositories.DocumentRepository
	audit      AuditService
	cache      mem.ViewCache
	log        *zap.Logger
}

func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	vendorRepo repositories.VendorRepository,
	docRepo repositories.DocumentRepository,
	audit AuditService,
	cache mem.ViewCache,
	log *zap.Logger,
) OrganizationService {
	return &organizationService{
		orgRepo:    orgRepo,
		vendorRepo: vendorRepo,
		docRepo:    docRepo,
		audit:      audit,
		cache:      cache,
		log:        log.Named("organizations"),
	}
}

func (o *organizationService) GetOrganization(ctx context.Context, org OrgContext) (*response_models.OrganizationResponse, error) {
	record, err := o.orgRepo.FindById(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: find organization: %v", utils.ErrDatabaseError, err)
	}
	if record == nil {
		return nil, utils.ErrNoOrganization
	}

	vendors, err := o.vendorRepo.CountByOrg(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: count vendors: %v", utils.ErrDatabaseError, err)
	}
	documents, err := o.docRepo.CountByOrg(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: count documents: %v", utils.ErrDatabaseError, err)
	}
	seats, err := o.orgRepo.CountMembers(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("%w: count members: %v", utils.ErrDatabaseError, err)
	}

	sub := record.Subscription
	if sub == nil {
		sub = &db_models.Subscription{Plan: db_models.PlanFree, Status: db_models.SubStatusActive}
	}
	limits := GetPlanLimits(sub.Plan)

	plans := make([]response_models.PlanInfo, 0, 3)
	for _, d := range AllPlanDisplays() {
		plans = append(plans, toPlanInfo(d))
	}

	return &response_models.OrganizationResponse{
		ID:   record.ID.String(),
		Name: record.Name,
		Role: string(org.Role),
		Subscription: response_models.SubscriptionInfo{
			Plan:              string(sub.Plan),
			Status:            string(sub.Status),
			CurrentPeriodEnd:  sub.CurrentPeriodEnd,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
			HasBillingAccount: sub.StripeCustomerID != nil,
		},
		PlanInfo: toPlanInfo(GetPlanDisplay(sub.Plan)),
		Plans:    plans,
		Usage: response_models.UsageInfo{
			Vendors:   toLimitInfo(vendors, limits.MaxVendors),
			Documents: toLimitInfo(documents, limits.MaxDocuments),
			Seats:     toLimitInfo(seats, limits.MaxSeats),
		},
	}, nil
}

func (o *organizationService) UpdateOrganization(ctx context.Context, org OrgContext, req request_models.UpdateOrganizationRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	if err := o.orgRepo.UpdateName(ctx, org.OrgID, req.Name); err != nil {
		return fmt.Errorf("%w: update organization: %v", utils.ErrDatabaseError, err)
	}

	o.audit.Record(ctx, db_models.AuditOrganizationUpdated, org.OrgID, org.userRef(),
		fmt.Sprintf("Organization renamed to %q", req.Name))
	invalidateOrgViews(o.cache, org.OrgID)
	return nil
}

func toLimitInfo(used int64, limit Limit) response_models.LimitInfo {
	info := response_models.LimitInfo{Used: used}
	if !limit.Unlimited {
		ceiling := limit.Max
		info.Max = &ceiling
	}
	return info
}
