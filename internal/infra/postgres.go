package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coivault/internal/models/db_models"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&db_models.User{},
		&db_models.Organization{},
		&db_models.Membership{},
		&db_models.Subscription{},
		&db_models.Vendor{},
		&db_models.Document{},
		&db_models.AuditLog{},
		&db_models.BillingEvent{},
	}
}

func InitPostgresql(dsn string, log *zap.Logger) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := Migrate(connectionPool); err != nil {
		return nil, err
	}

	log.Info("PostgreSQL connection established")
	return connectionPool, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error("Error closing database connection", zap.Error(err))
	} else {
		log.Info("PostgreSQL database connection closed successfully")
	}
}
