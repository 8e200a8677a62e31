package controllers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"coivault/internal/api/controllers"
	"coivault/internal/services"
	"coivault/pkg/metrics"
	"coivault/pkg/middleware"
	"coivault/pkg/ratelimit"
	"coivault/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewVendorController),
	fx.Provide(controllers.NewDocumentController),
	fx.Provide(controllers.NewOrganizationController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewAuditController),
	fx.Provide(controllers.NewBillingController),
	fx.Provide(controllers.NewCronController),
	fx.Provide(provideControllers, provideGuards))

type controllerParams struct {
	fx.In

	Account      *controllers.AccountController
	Vendor       *controllers.VendorController
	Document     *controllers.DocumentController
	Organization *controllers.OrganizationController
	Dashboard    *controllers.DashboardController
	Audit        *controllers.AuditController
	Billing      *controllers.BillingController
	Cron         *controllers.CronController
}

func provideControllers(p controllerParams) controllers.Controllers {
	return controllers.Controllers{
		Account:      p.Account,
		Vendor:       p.Vendor,
		Document:     p.Document,
		Organization: p.Organization,
		Dashboard:    p.Dashboard,
		Audit:        p.Audit,
		Billing:      p.Billing,
		Cron:         p.Cron,
	}
}

func provideGuards(
	jwt *utils.JWTManager,
	accounts services.AccountServiceInterface,
	limiter ratelimit.Limiter,
	m *metrics.Metrics,
	log *zap.Logger,
) controllers.Guards {
	return controllers.Guards{
		Auth:      middleware.JWTAuthMiddleware(jwt),
		Tenant:    controllers.TenantMiddleware(accounts),
		RateLimit: middleware.RateLimitMiddleware(limiter, m, log),
	}
}
