package response_models

import "time"

type PlanInfo struct {
	Plan        string `json:"plan"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// LimitInfo describes one quota. Max is nil when the plan is unlimited.
type LimitInfo struct {
	Used int64  `json:"used"`
	Max  *int64 `json:"max"`
}

type UsageInfo struct {
	Vendors   LimitInfo `json:"vendors"`
	Documents LimitInfo `json:"documents"`
	Seats     LimitInfo `json:"seats"`
}

type SubscriptionInfo struct {
	Plan              string     `json:"plan"`
	Status            string     `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	HasBillingAccount bool       `json:"hasBillingAccount"`
}

type OrganizationResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Role         string           `json:"role"`
	Subscription SubscriptionInfo `json:"subscription"`
	PlanInfo     PlanInfo         `json:"planInfo"`
	Plans        []PlanInfo       `json:"plans"`
	Usage        UsageInfo        `json:"usage"`
}

type RedirectResponse struct {
	URL string `json:"url"`
}
