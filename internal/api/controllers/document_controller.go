package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coivault/internal/models/request_models"
	"coivault/internal/models/response_models"
	"coivault/internal/services"
	"coivault/pkg/utils"
)

type DocumentController struct {
	documentService services.DocumentService
}

func NewDocumentController(documentService services.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// CreateDocument godoc
// @Summary Attach a document to a vendor
// @Description Subject to the plan's document limit. Past expiry dates are accepted.
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body request_models.CreateDocumentRequest true "Document payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /documents [post]
func (d *DocumentController) CreateDocument(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	var req request_models.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	id, err := d.documentService.CreateDocument(c.Request.Context(), org, req)
	if err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CreatedResponse{ID: id.String()}, "Document added successfully")
}

// DeleteDocument godoc
// @Summary Delete a document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (d *DocumentController) DeleteDocument(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondActionError(c, utils.ErrDocumentNotFound)
		return
	}

	if err := d.documentService.DeleteDocument(c.Request.Context(), org, id); err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Document deleted successfully")
}
