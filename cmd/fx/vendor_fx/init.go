package vendor_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"coivault/internal/repositories"
	"coivault/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideVendorRepo, provideDocumentRepo),
	fx.Provide(services.NewVendorService, services.NewDocumentService))

func provideVendorRepo(db *gorm.DB) repositories.VendorRepository {
	return repositories.NewVendorRepository(db)
}

func provideDocumentRepo(db *gorm.DB) repositories.DocumentRepository {
	return repositories.NewDocumentRepository(db)
}
