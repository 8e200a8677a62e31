package account_fx

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coivault/internal/config"
	"coivault/internal/repositories"
	"coivault/internal/services"
	mem "coivault/pkg/memcache"
	"coivault/pkg/utils"
)

// Sessions last as long as the hosted dashboard keeps users signed in.
const tokenTTL = 30 * 24 * time.Hour

var Module = fx.Provide(
	provideAccountRepo, provideOrganizationRepo, provideAuditRepo,
	provideJWTManager, provideAuditService, provideAccountService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideOrganizationRepo(db *gorm.DB) repositories.OrganizationRepository {
	return repositories.NewOrganizationRepository(db)
}

func provideAuditRepo(db *gorm.DB) repositories.AuditRepository {
	return repositories.NewAuditRepository(db)
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret, tokenTTL)
}

func provideAuditService(auditRepo repositories.AuditRepository, log *zap.Logger) services.AuditService {
	return services.NewAuditService(auditRepo, log)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	orgRepo repositories.OrganizationRepository,
	audit services.AuditService,
	jwt *utils.JWTManager,
	cache mem.ViewCache,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, orgRepo, audit, jwt, cache, log)
}
