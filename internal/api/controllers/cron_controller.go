package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coivault/internal/services"
)

type CronController struct {
	reminderService services.ReminderService
	log             *zap.Logger
	now             func() time.Time
}

func NewCronController(reminderService services.ReminderService, log *zap.Logger) *CronController {
	return &CronController{
		reminderService: reminderService,
		log:             log.Named("cron"),
		now:             time.Now,
	}
}

// Reminders godoc
// @Summary Run the expiry reminder sweep
// @Description Called by an external scheduler with "Authorization: Bearer <CRON_SECRET>"
// @Tags Cron
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/cron/reminders [get]
func (cc *CronController) Reminders(c *gin.Context) {
	if !cc.reminderService.Authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := cc.reminderService.Sweep(c.Request.Context(), cc.now())
	if err != nil {
		cc.log.Error("Reminder sweep failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reminder sweep failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"documentsExpiring":     result.DocumentsExpiring,
		"organizationsNotified": result.OrganizationsNotified,
		"emailsSent":            result.EmailsSent,
	})
}
