package services

import (
	"coivault/internal/models/db_models"
)

type ResourceKind string

const (
	ResourceVendors   ResourceKind = "vendors"
	ResourceDocuments ResourceKind = "documents"
	ResourceSeats     ResourceKind = "seats"
)

// Limit is a per-plan ceiling. An unlimited limit admits every count.
type Limit struct {
	Max       int64 `json:"max,omitempty"`
	Unlimited bool  `json:"unlimited"`
}

func limitOf(n int64) Limit { return Limit{Max: n} }

var unlimited = Limit{Unlimited: true}

// Admits reports whether one more resource fits when count already exist.
func (l Limit) Admits(count int64) bool {
	if l.Unlimited {
		return true
	}
	return count < l.Max
}

type PlanLimits struct {
	MaxVendors   Limit `json:"maxVendors"`
	MaxDocuments Limit `json:"maxDocuments"`
	MaxSeats     Limit `json:"maxSeats"`
}

var planLimits = map[db_models.Plan]PlanLimits{
	db_models.PlanFree: {
		MaxVendors:   limitOf(5),
		MaxDocuments: limitOf(10),
		MaxSeats:     limitOf(1),
	},
	db_models.PlanPro: {
		MaxVendors:   unlimited,
		MaxDocuments: unlimited,
		MaxSeats:     limitOf(1),
	},
	db_models.PlanTeam: {
		MaxVendors:   unlimited,
		MaxDocuments: unlimited,
		MaxSeats:     limitOf(10),
	},
}

// GetPlanLimits returns the limits of plan. Unknown plans get FREE limits.
func GetPlanLimits(plan db_models.Plan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[db_models.PlanFree]
}

func (p PlanLimits) For(kind ResourceKind) Limit {
	switch kind {
	case ResourceVendors:
		return p.MaxVendors
	case ResourceDocuments:
		return p.MaxDocuments
	case ResourceSeats:
		return p.MaxSeats
	default:
		return limitOf(0)
	}
}

// CanAdmit decides whether a tenant on plan holding currentCount resources of
// kind may create one more. Unknown kinds are never admitted.
func CanAdmit(kind ResourceKind, plan db_models.Plan, currentCount int64) bool {
	return GetPlanLimits(plan).For(kind).Admits(currentCount)
}

func CanAddVendor(plan db_models.Plan, currentCount int64) bool {
	return CanAdmit(ResourceVendors, plan, currentCount)
}

func CanAddDocument(plan db_models.Plan, currentCount int64) bool {
	return CanAdmit(ResourceDocuments, plan, currentCount)
}

func CanAddSeat(plan db_models.Plan, currentCount int64) bool {
	return CanAdmit(ResourceSeats, plan, currentCount)
}

type PlanDisplay struct {
	Plan        db_models.Plan `json:"plan"`
	Name        string         `json:"name"`
	Price       string         `json:"price"`
	Description string         `json:"description"`
}

var planDisplay = map[db_models.Plan]PlanDisplay{
	db_models.PlanFree: {Plan: db_models.PlanFree, Name: "Free", Price: "$0/mo", Description: "5 vendors, 10 documents, 1 seat"},
	db_models.PlanPro:  {Plan: db_models.PlanPro, Name: "Pro", Price: "$29/mo", Description: "Unlimited vendors & documents, 1 seat"},
	db_models.PlanTeam: {Plan: db_models.PlanTeam, Name: "Team", Price: "$79/mo", Description: "Unlimited vendors & documents, up to 10 seats"},
}

func GetPlanDisplay(plan db_models.Plan) PlanDisplay {
	if display, ok := planDisplay[plan]; ok {
		return display
	}
	return planDisplay[db_models.PlanFree]
}

// AllPlanDisplays lists every plan in ascending tier order.
func AllPlanDisplays() []PlanDisplay {
	return []PlanDisplay{
		planDisplay[db_models.PlanFree],
		planDisplay[db_models.PlanPro],
		planDisplay[db_models.PlanTeam],
	}
}
