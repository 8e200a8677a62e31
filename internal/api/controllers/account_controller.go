package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coivault/internal/models/request_models"
	"coivault/internal/services"
	"coivault/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// SignUp godoc
// @Summary Register a new account
// @Description Create a user, their organization, an owner membership and a free subscription
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Sign-up payload"
// @Success 200 {object} utils.APIResponse
// @Router /auth/signup [post]
func (a *AccountController) SignUp(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.accountService.SignUp(c.Request.Context(), req)
	if err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Account created successfully")
}

// SignIn godoc
// @Summary Sign in
// @Description Authenticate with email and password and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignInRequest true "Sign-in payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/signin [post]
func (a *AccountController) SignIn(c *gin.Context) {
	var req request_models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.accountService.SignIn(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Login successful")
}

// DeleteAccount godoc
// @Summary Delete account
// @Description Soft-delete the caller and their organization. Owner only.
// @Tags Organization
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /organization [delete]
func (a *AccountController) DeleteAccount(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	if err := a.accountService.DeleteAccount(c.Request.Context(), org); err != nil {
		utils.RespondActionError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account deleted")
}
