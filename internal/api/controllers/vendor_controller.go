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

type VendorController struct {
	vendorService services.VendorService
}

func NewVendorController(vendorService services.VendorService) *VendorController {
	return &VendorController{
		vendorService: vendorService,
	}
}

// ListVendors godoc
// @Summary List vendors
// @Description Vendors of the caller's organization, newest first, with their documents
// @Tags Vendors
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /vendors [get]
func (v *VendorController) ListVendors(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	vendors, err := v.vendorService.ListVendors(c.Request.Context(), org)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, vendors, "Vendors retrieved successfully")
}

// GetVendor godoc
// @Summary Get a vendor
// @Tags Vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /vendors/{id} [get]
func (v *VendorController) GetVendor(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrVendorNotFound)
		return
	}

	vendor, err := v.vendorService.GetVendor(c.Request.Context(), org, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, vendor, "Vendor retrieved successfully")
}

// CreateVendor godoc
// @Summary Create a vendor
// @Description Subject to the plan's vendor limit
// @Tags Vendors
// @Accept json
// @Produce json
// @Param request body request_models.CreateVendorRequest true "Vendor payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /vendors [post]
func (v *VendorController) CreateVendor(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	var req request_models.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	id, err := v.vendorService.CreateVendor(c.Request.Context(), org, req)
	if err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.CreatedResponse{ID: id.String()}, "Vendor created successfully")
}

// DeleteVendor godoc
// @Summary Delete a vendor
// @Tags Vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /vendors/{id} [delete]
func (v *VendorController) DeleteVendor(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondActionError(c, utils.ErrVendorNotFound)
		return
	}

	if err := v.vendorService.DeleteVendor(c.Request.Context(), org, id); err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Vendor deleted successfully")
}
