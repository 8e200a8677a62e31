package mail_fx

import (
	"go.uber.org/fx"

	"coivault/internal/services"
)

var Module = fx.Provide(
	services.NewMailService, services.NewReminderService)
