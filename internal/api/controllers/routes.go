package controllers

import (
	"github.com/gin-gonic/gin"
)

// Controllers groups every handler mounted by RegisterRoutes.
type Controllers struct {
	Account      *AccountController
	Vendor       *VendorController
	Document     *DocumentController
	Organization *OrganizationController
	Dashboard    *DashboardController
	Audit        *AuditController
	Billing      *BillingController
	Cron         *CronController
}

// Guards are applied in order to every authenticated route.
type Guards struct {
	Auth      gin.HandlerFunc
	Tenant    gin.HandlerFunc
	RateLimit gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, ctl Controllers, guards Guards) {
	auth := r.Group("/auth", guards.RateLimit)
	auth.POST("/signup", ctl.Account.SignUp)
	auth.POST("/signin", ctl.Account.SignIn)

	api := r.Group("/api")
	api.POST("/webhooks/stripe", ctl.Billing.Webhook)
	api.GET("/cron/reminders", ctl.Cron.Reminders)

	app := r.Group("/", guards.Auth, guards.RateLimit, guards.Tenant)

	app.GET("/dashboard", ctl.Dashboard.GetDashboard)

	vendors := app.Group("/vendors")
	vendors.GET("", ctl.Vendor.ListVendors)
	vendors.POST("", ctl.Vendor.CreateVendor)
	vendors.GET("/:id", ctl.Vendor.GetVendor)
	vendors.DELETE("/:id", ctl.Vendor.DeleteVendor)

	documents := app.Group("/documents")
	documents.POST("", ctl.Document.CreateDocument)
	documents.DELETE("/:id", ctl.Document.DeleteDocument)

	organization := app.Group("/organization")
	organization.GET("", ctl.Organization.GetOrganization)
	organization.PUT("", ctl.Organization.UpdateOrganization)
	organization.DELETE("", ctl.Account.DeleteAccount)

	app.GET("/audit-logs", ctl.Audit.ListAuditLogs)

	billing := app.Group("/billing")
	billing.POST("/checkout", ctl.Billing.Checkout)
	billing.POST("/portal", ctl.Billing.Portal)
}
