package dashboard

import (
	"go.uber.org/fx"

	"coivault/internal/services"
)

var Module = fx.Provide(
	services.NewDashboardService, services.NewOrganizationService,
)
