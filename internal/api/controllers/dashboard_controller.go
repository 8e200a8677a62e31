package controllers

import (
	"github.com/gin-gonic/gin"

	"coivault/internal/services"
	"coivault/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Get dashboard
// @Description Vendor and document counts, documents expiring within 30 days and the current plan
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	report, err := p.dashboardService.GetDashboard(c.Request.Context(), org)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}
