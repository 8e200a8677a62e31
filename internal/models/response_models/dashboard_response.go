package response_models

type DashboardResponse struct {
	OrganizationName string             `json:"organizationName"`
	VendorCount      int64              `json:"vendorCount"`
	DocumentCount    int64              `json:"documentCount"`
	ExpiringCount    int                `json:"expiringCount"`
	Expiring         []DocumentResponse `json:"expiring"`
	Plan             PlanInfo           `json:"plan"`
}
