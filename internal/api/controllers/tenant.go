package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coivault/internal/services"
	"coivault/pkg/middleware"
	"coivault/pkg/utils"
)

const ContextOrg = "org_context"

// OrgResolver loads the tenant a user acts in.
type OrgResolver interface {
	ResolveOrgContext(ctx context.Context, userID uuid.UUID) (*services.OrgContext, error)
}

// TenantMiddleware must run after JWTAuthMiddleware. Requests from users
// without a live membership are rejected before reaching a handler.
func TenantMiddleware(resolver OrgResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		org, err := resolver.ResolveOrgContext(c.Request.Context(), userID)
		if err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextOrg, *org)
		c.Next()
	}
}

func orgFromContext(c *gin.Context) (services.OrgContext, bool) {
	v, ok := c.Get(ContextOrg)
	if !ok {
		return services.OrgContext{}, false
	}
	org, ok := v.(services.OrgContext)
	return org, ok
}

// requireOrg reads the tenant set by TenantMiddleware.
func requireOrg(c *gin.Context) (services.OrgContext, bool) {
	org, ok := orgFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return services.OrgContext{}, false
	}
	return org, true
}
