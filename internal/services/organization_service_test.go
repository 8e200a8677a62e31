package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/models/response_models"
)

func TestGetOrganizationReportsUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.tenant(t, "owner@acme.test", "Acme")
	orgs := NewOrganizationService(f.orgRepo, f.vendorRepo, f.docRepo, f.audit, f.cache, f.log)

	vendorID := f.vendor(t, org, "Bolt Electric")
	f.vendor(t, org, "Clearwater Plumbing")
	f.document(t, org, vendorID, "liability", time.Now().Add(40*day))

	resp, err := orgs.GetOrganization(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.Name)
	assert.Equal(t, "OWNER", resp.Role)
	assert.Equal(t, "FREE", resp.Subscription.Plan)
	assert.Equal(t, "ACTIVE", resp.Subscription.Status)
	assert.False(t, resp.Subscription.HasBillingAccount)
	assert.Len(t, resp.Plans, 3)

	assert.Equal(t, int64(2), resp.Usage.Vendors.Used)
	require.NotNil(t, resp.Usage.Vendors.Max)
	assert.Equal(t, int64(5), *resp.Usage.Vendors.Max)
	assert.Equal(t, int64(1), resp.Usage.Documents.Used)
	assert.Equal(t, int64(1), resp.Usage.Seats.Used)

	f.setPlan(t, org, db_models.PlanPro)
	resp, err = orgs.GetOrganization(ctx, org)
	require.NoError(t, err)
	assert.Nil(t, resp.Usage.Vendors.Max)
	assert.Nil(t, resp.Usage.Documents.Max)
	require.NotNil(t, resp.Usage.Seats.Max)
	assert.Equal(t, int64(1), *resp.Usage.Seats.Max)
	assert.Equal(t, "Pro", resp.PlanInfo.Name)
}

func TestUpdateOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.tenant(t, "owner@acme.test", "Acme")
	orgs := NewOrganizationService(f.orgRepo, f.vendorRepo, f.docRepo, f.audit, f.cache, f.log)

	require.Error(t, orgs.UpdateOrganization(ctx, org, request_models.UpdateOrganizationRequest{Name: "  "}))
	require.NoError(t, orgs.UpdateOrganization(ctx, org, request_models.UpdateOrganizationRequest{Name: " Acme Holdings "}))

	resp, err := orgs.GetOrganization(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", resp.Name)
	assert.Contains(t, f.auditActions(t, org), string(db_models.AuditOrganizationUpdated))
}

func TestDashboardIsCachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := f.tenant(t, "owner@acme.test", "Acme")
	dashboard := NewDashboardService(f.vendorRepo, f.docRepo, f.subRepo, f.cache, f.log)

	vendorID := f.vendor(t, org, "Bolt Electric")
	f.document(t, org, vendorID, "expired", time.Now().Add(-2*day))
	f.document(t, org, vendorID, "soon", time.Now().Add(10*day))
	f.document(t, org, vendorID, "later", time.Now().Add(90*day))

	first, err := dashboard.GetDashboard(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, "Acme", first.OrganizationName)
	assert.Equal(t, int64(1), first.VendorCount)
	assert.Equal(t, int64(3), first.DocumentCount)
	require.Equal(t, 2, first.ExpiringCount)
	assert.Equal(t, "expired", first.Expiring[0].Title)
	assert.Equal(t, string(ExpiryExpired), first.Expiring[0].ExpiryClass)
	assert.Equal(t, "Bolt Electric", first.Expiring[0].VendorName)
	assert.Equal(t, "Free", first.Plan.Name)

	cached, ok := f.cache.Get(dashboardKey(org.OrgID))
	require.True(t, ok)
	assert.Same(t, first, cached.(*response_models.DashboardResponse))

	f.vendor(t, org, "Clearwater Plumbing")
	_, ok = f.cache.Get(dashboardKey(org.OrgID))
	assert.False(t, ok, "creating a vendor drops the cached dashboard")

	second, err := dashboard.GetDashboard(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.VendorCount)
}

func TestInvalidateOrgViewsLeavesOtherTenants(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant(t, "owner@acme.test", "Acme")
	globex := f.tenant(t, "owner@globex.test", "Globex")

	f.cache.Set(dashboardKey(acme.OrgID), "acme", time.Minute)
	f.cache.Set(dashboardKey(globex.OrgID), "globex", time.Minute)

	invalidateOrgViews(f.cache, acme.OrgID)

	_, ok := f.cache.Get(dashboardKey(acme.OrgID))
	assert.False(t, ok)
	value, ok := f.cache.Get(dashboardKey(globex.OrgID))
	assert.True(t, ok)
	assert.Equal(t, "globex", value)
}
