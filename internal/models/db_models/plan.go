package db_models

type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
	PlanTeam Plan = "TEAM"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanTeam:
		return true
	}
	return false
}
