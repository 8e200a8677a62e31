package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coivault/internal/models/request_models"
	"coivault/internal/services"
	"coivault/pkg/utils"
)

type OrganizationController struct {
	organizationService services.OrganizationService
}

func NewOrganizationController(organizationService services.OrganizationService) *OrganizationController {
	return &OrganizationController{
		organizationService: organizationService,
	}
}

// GetOrganization godoc
// @Summary Organization settings
// @Description Organization, subscription, plan catalogue and usage against plan limits
// @Tags Organization
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /organization [get]
func (o *OrganizationController) GetOrganization(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	resp, err := o.organizationService.GetOrganization(c.Request.Context(), org)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Organization retrieved successfully")
}

// UpdateOrganization godoc
// @Summary Rename the organization
// @Tags Organization
// @Accept json
// @Produce json
// @Param request body request_models.UpdateOrganizationRequest true "New name"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /organization [put]
func (o *OrganizationController) UpdateOrganization(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	var req request_models.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := o.organizationService.UpdateOrganization(c.Request.Context(), org, req); err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Organization updated successfully")
}
