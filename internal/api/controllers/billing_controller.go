package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coivault/internal/models/request_models"
	"coivault/internal/services"
	"coivault/pkg/utils"
)

const maxWebhookBody = 1 << 20

type BillingController struct {
	billingService services.BillingService
	webhookService services.BillingWebhookService
	log            *zap.Logger
}

func NewBillingController(billingService services.BillingService, webhookService services.BillingWebhookService, log *zap.Logger) *BillingController {
	return &BillingController{
		billingService: billingService,
		webhookService: webhookService,
		log:            log.Named("billing_controller"),
	}
}

// Checkout godoc
// @Summary Start a plan upgrade
// @Description Redirects (303) to the hosted checkout page for the requested plan
// @Tags Billing
// @Accept json
// @Param request body request_models.CheckoutRequest true "Target plan"
// @Success 303
// @Security BearerAuth
// @Router /billing/checkout [post]
func (b *BillingController) Checkout(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	var req request_models.CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	url, err := b.billingService.CreateCheckout(c.Request.Context(), org, req)
	if err != nil {
		utils.RespondActionError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}

// Portal godoc
// @Summary Manage billing
// @Description Redirects (303) to the hosted billing portal
// @Tags Billing
// @Success 303
// @Security BearerAuth
// @Router /billing/portal [post]
func (b *BillingController) Portal(c *gin.Context) {
	org, ok := requireOrg(c)
	if !ok {
		return
	}

	url, err := b.billingService.CreatePortal(c.Request.Context(), org)
	if err != nil {
		utils.RespondActionError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}

// Webhook godoc
// @Summary Billing provider webhook
// @Description Verifies the Stripe-Signature header and applies subscription lifecycle events
// @Tags Billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/webhooks/stripe [post]
func (b *BillingController) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	err = b.webhookService.Process(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, services.ErrMissingSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature"})
	case errors.Is(err, services.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
	}
}
