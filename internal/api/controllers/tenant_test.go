package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coivault/internal/models/db_models"
	"coivault/internal/services"
	"coivault/pkg/middleware"
	"coivault/pkg/utils"
)

type stubResolver struct {
	org *services.OrgContext
	err error
}

func (s stubResolver) ResolveOrgContext(context.Context, uuid.UUID) (*services.OrgContext, error) {
	return s.org, s.err
}

func TestTenantMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	withUser := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}

	org := &services.OrgContext{UserID: userID, OrgID: uuid.New(), OrgName: "Acme", Role: db_models.RoleOwner}
	r := gin.New()
	r.GET("/ok", withUser, TenantMiddleware(stubResolver{org: org}), func(c *gin.Context) {
		got, ok := requireOrg(c)
		require.True(t, ok)
		c.String(http.StatusOK, got.OrgName)
	})
	r.GET("/orphan", withUser, TenantMiddleware(stubResolver{err: utils.ErrNoOrganization}), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})
	r.GET("/anonymous", TenantMiddleware(stubResolver{org: org}), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})
	r.GET("/unguarded", func(c *gin.Context) {
		_, ok := requireOrg(c)
		assert.False(t, ok)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orphan", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anonymous", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unguarded", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
