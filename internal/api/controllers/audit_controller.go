package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coivault/internal/models/request_models"
	"coivault/internal/services"
	"coivault/pkg/utils"
)

type AuditController struct {
	auditService services.AuditService
}

func NewAuditController(auditService services.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// ListAuditLogs godoc
// @Summary List audit log entries
// @Description Newest first, scoped to the caller's organization
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (a *AuditController) ListAuditLogs(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	var req request_models.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}

	page, err := a.auditService.List(c.Request.Context(), org, req.Page, req.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, page, "Audit logs retrieved successfully")
}
