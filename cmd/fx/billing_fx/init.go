package billing_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coivault/internal/config"
	"coivault/internal/repositories"
	"coivault/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideSubscriptionRepo, provideBillingEventRepo, provideGateway),
	fx.Provide(
		services.NewEntitlementService,
		services.NewBillingService,
		services.NewBillingWebhookService,
	))

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideBillingEventRepo(db *gorm.DB) repositories.BillingEventRepository {
	return repositories.NewBillingEventRepository(db)
}

func provideGateway(cfg *config.Config, log *zap.Logger) services.BillingGateway {
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, billing actions will be unavailable")
	}
	return services.NewBillingGateway(cfg)
}
