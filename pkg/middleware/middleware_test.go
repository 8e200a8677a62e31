package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coivault/pkg/metrics"
	"coivault/pkg/ratelimit"
	"coivault/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Hour)
	userID := uuid.New()

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(jwt), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decode(t, rec).Message)

	other, err := utils.NewJWTManager("other-secret", time.Hour).CreateToken(userID, "a@b.test")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.CreateToken(userID, "a@b.test")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(RateLimitMiddleware(limiter, metrics.New(), zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, assert.AnError
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(brokenLimiter{}, nil, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTraceIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/trace", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextTraceID)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trace", nil))
	generated := rec.Header().Get("X-Trace-ID")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, rec.Body.String())

	incoming := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set("X-Trace-ID", incoming)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get("X-Trace-ID"))
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://app.coivault.test"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.coivault.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
