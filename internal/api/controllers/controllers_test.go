package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/internal/repositories"
	"coivault/internal/services"
	"coivault/internal/testutil"
	mem "coivault/pkg/memcache"
	"coivault/pkg/metrics"
	"coivault/pkg/middleware"
	"coivault/pkg/ratelimit"
	"coivault/pkg/utils"
)

const webhookSecret = "whsec_controller_test"

type stubGateway struct{}

func (stubGateway) CreateCustomer(context.Context, string, map[string]string) (string, error) {
	return "cus_test", nil
}

func (stubGateway) CreateCheckoutSession(_ context.Context, req services.CheckoutSessionRequest) (string, error) {
	return "https://checkout.stripe.test/" + req.PriceID, nil
}

func (stubGateway) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	return "https://billing.stripe.test/" + customerID, nil
}

func (stubGateway) GetSubscription(context.Context, string) (*services.ExternalSubscription, error) {
	return nil, fmt.Errorf("no subscriptions in this stub")
}

type recordingMailer struct {
	sent []services.EmailMessage
}

func (m *recordingMailer) Send(_ context.Context, msg services.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	engine *gin.Engine
	mailer *recordingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	log := zap.NewNop()
	m := metrics.New()
	cache := mem.NewViewCache()
	cfg := &config.Config{
		AppURL:     "https://app.coivault.test",
		CronSecret: "cron-secret",
		Stripe: config.StripeConfig{
			WebhookSecret: webhookSecret,
			ProPriceID:    "price_pro",
			TeamPriceID:   "price_team",
		},
	}
	jwt := utils.NewJWTManager("controller-secret", time.Hour)

	accountRepo := repositories.NewAccountRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	vendorRepo := repositories.NewVendorRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)

	audit := services.NewAuditService(repositories.NewAuditRepository(db), log)
	accounts := services.NewAccountService(accountRepo, orgRepo, audit, jwt, cache, log)
	gateway := stubGateway{}
	entitlements := services.NewEntitlementService(subRepo, audit, gateway, cache, cfg, log)
	mailer := &recordingMailer{}

	limiter := ratelimit.NewMemoryLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	RegisterRoutes(r, Controllers{
		Account:      NewAccountController(accounts),
		Vendor:       NewVendorController(services.NewVendorService(vendorRepo, subRepo, audit, cache, m, log)),
		Document:     NewDocumentController(services.NewDocumentService(docRepo, vendorRepo, subRepo, audit, cache, m, log)),
		Organization: NewOrganizationController(services.NewOrganizationService(orgRepo, vendorRepo, docRepo, audit, cache, log)),
		Dashboard:    NewDashboardController(services.NewDashboardService(vendorRepo, docRepo, subRepo, cache, log)),
		Audit:        NewAuditController(audit),
		Billing: NewBillingController(
			services.NewBillingService(subRepo, gateway, cfg, log),
			services.NewBillingWebhookService(cfg, entitlements, repositories.NewBillingEventRepository(db), m, log),
			log),
		Cron: NewCronController(services.NewReminderService(docRepo, orgRepo, mailer, m, cfg, log), log),
	}, Guards{
		Auth:      middleware.JWTAuthMiddleware(jwt),
		Tenant:    TenantMiddleware(accounts),
		RateLimit: middleware.RateLimitMiddleware(limiter, m, log),
	})

	return &testServer{engine: r, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func readEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) signUp(t *testing.T, email, orgName string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name":     "Owner",
		"email":    email,
		"password": "correct-horse",
		"orgName":  orgName,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var auth struct {
		Token string `json:"token"`
	}
	env := readEnvelope(t, rec, &auth)
	require.Equal(t, "success", env.Status, env.Message)
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func (s *testServer) createVendor(t *testing.T, token, name string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/vendors", token, map[string]string{"name": name})
	var created struct {
		ID string `json:"id"`
	}
	env := readEnvelope(t, rec, &created)
	require.Equal(t, "success", env.Status, env.Message)
	return created.ID
}

func TestVendorLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@acme.test", "Acme")

	vendorID := s.createVendor(t, token, "Bolt Electric")

	rec := s.do(t, http.MethodPost, "/documents", token, map[string]string{
		"title":      "General Liability",
		"type":       "COI",
		"url":        "https://files.example.com/gl.pdf",
		"expiryDate": time.Now().Add(5 * 24 * time.Hour).UTC().Format("2006-01-02"),
		"vendorId":   vendorID,
	})
	env := readEnvelope(t, rec, nil)
	require.Equal(t, "success", env.Status, env.Message)

	rec = s.do(t, http.MethodGet, "/vendors", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var vendors []struct {
		ID        string `json:"id"`
		Documents []struct {
			Title       string `json:"title"`
			ExpiryClass string `json:"expiryClass"`
		} `json:"documents"`
	}
	env = readEnvelope(t, rec, &vendors)
	assert.NotEmpty(t, env.TraceID)
	require.Len(t, vendors, 1)
	require.Len(t, vendors[0].Documents, 1)
	assert.Equal(t, "CRITICAL", vendors[0].Documents[0].ExpiryClass)

	rec = s.do(t, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard struct {
		VendorCount   int `json:"vendorCount"`
		ExpiringCount int `json:"expiringCount"`
	}
	readEnvelope(t, rec, &dashboard)
	assert.Equal(t, 1, dashboard.VendorCount)
	assert.Equal(t, 1, dashboard.ExpiringCount)

	rec = s.do(t, http.MethodDelete, "/vendors/"+vendorID, token, nil)
	assert.Equal(t, "success", readEnvelope(t, rec, nil).Status)

	rec = s.do(t, http.MethodGet, "/vendors/"+vendorID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Vendor not found", readEnvelope(t, rec, nil).Message)

	rec = s.do(t, http.MethodGet, "/audit-logs?page=1&pageSize=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []struct {
			Action string `json:"action"`
		} `json:"items"`
		Total int `json:"total"`
	}
	readEnvelope(t, rec, &page)
	assert.Equal(t, 3, page.Total)
	actions := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		actions = append(actions, item.Action)
	}
	assert.ElementsMatch(t, []string{"VENDOR_CREATED", "DOCUMENT_ADDED", "VENDOR_DELETED"}, actions)

	rec = s.do(t, http.MethodGet, "/audit-logs?pageSize=500", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Page size must be between 1 and 100", readEnvelope(t, rec, nil).Message)
}

func TestFormActionsReportErrorsInEnvelope(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@acme.test", "Acme")

	for i := 0; i < 5; i++ {
		s.createVendor(t, token, fmt.Sprintf("Vendor %d", i))
	}

	rec := s.do(t, http.MethodPost, "/vendors", token, map[string]string{"name": "Sixth"})
	assert.Equal(t, http.StatusOK, rec.Code)
	env := readEnvelope(t, rec, nil)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, http.StatusForbidden, env.Code)
	assert.Equal(t, "You have reached your vendor limit. Please upgrade your plan.", env.Message)

	rec = s.do(t, http.MethodPost, "/vendors", token, map[string]string{"name": ""})
	env = readEnvelope(t, rec, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	rec = s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Again", "email": "OWNER@acme.test", "password": "correct-horse", "orgName": "Again",
	})
	env = readEnvelope(t, rec, nil)
	assert.Equal(t, http.StatusConflict, env.Code)
	assert.Equal(t, "An account with this email already exists", env.Message)
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/vendors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "ghost@acme.test", "password": "whatever1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", readEnvelope(t, rec, nil).Message)
}

func TestTenantsCannotSeeEachOther(t *testing.T) {
	s := newTestServer(t)
	acme := s.signUp(t, "owner@acme.test", "Acme")
	globex := s.signUp(t, "owner@globex.test", "Globex")

	vendorID := s.createVendor(t, acme, "Bolt Electric")

	rec := s.do(t, http.MethodGet, "/vendors/"+vendorID, globex, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/vendors/"+vendorID, globex, nil)
	assert.Equal(t, http.StatusNotFound, readEnvelope(t, rec, nil).Code)

	rec = s.do(t, http.MethodGet, "/vendors/"+vendorID, acme, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrganizationEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@acme.test", "Acme")

	rec := s.do(t, http.MethodPut, "/organization", token, map[string]string{"name": "Acme Holdings"})
	assert.Equal(t, "success", readEnvelope(t, rec, nil).Status)

	rec = s.do(t, http.MethodGet, "/organization", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var org struct {
		Name  string `json:"name"`
		Usage struct {
			Vendors struct {
				Used int  `json:"used"`
				Max  *int `json:"max"`
			} `json:"vendors"`
		} `json:"usage"`
	}
	readEnvelope(t, rec, &org)
	assert.Equal(t, "Acme Holdings", org.Name)
	require.NotNil(t, org.Usage.Vendors.Max)
	assert.Equal(t, 5, *org.Usage.Vendors.Max)

	rec = s.do(t, http.MethodDelete, "/organization", token, nil)
	assert.Equal(t, "success", readEnvelope(t, rec, nil).Status)

	rec = s.do(t, http.MethodGet, "/organization", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBillingRedirects(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@acme.test", "Acme")

	rec := s.do(t, http.MethodPost, "/billing/portal", token, nil)
	env := readEnvelope(t, rec, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "No billing account found. Please subscribe to a plan first.", env.Message)

	rec = s.do(t, http.MethodPost, "/billing/checkout", token, map[string]string{"plan": "TEAM"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://checkout.stripe.test/price_team", rec.Header().Get("Location"))

	rec = s.do(t, http.MethodPost, "/billing/portal", token, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://billing.stripe.test/cus_test", rec.Header().Get("Location"))
}

func TestWebhookResponses(t *testing.T) {
	s := newTestServer(t)
	event := `{"id":"evt_1","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`

	post := func(payload []byte, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
		if signature != "" {
			req.Header.Set("Stripe-Signature", signature)
		}
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		return rec
	}

	rec := post([]byte(event), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing signature"}`, rec.Body.String())

	rec = post([]byte(event), "t=123,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, rec.Body.String())

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(event),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	rec = post(signed.Payload, signed.Header)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())

	failing := `{"id":"evt_2","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","subscription":"sub_1","metadata":{"orgId":"6f1c1a52-8f0e-4a43-9d59-bb0f0f6a6a11"}}}}`
	signed = webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(failing),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	rec = post(signed.Payload, signed.Header)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Webhook handler failed"}`, rec.Body.String())
}

func TestCronReminders(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@acme.test", "Acme")
	vendorID := s.createVendor(t, token, "Bolt Electric")
	rec := s.do(t, http.MethodPost, "/documents", token, map[string]string{
		"title":      "General Liability",
		"type":       "COI",
		"url":        "https://files.example.com/gl.pdf",
		"expiryDate": time.Now().Add(3 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"vendorId":   vendorID,
	})
	require.Equal(t, "success", readEnvelope(t, rec, nil).Status)

	rec = s.do(t, http.MethodGet, "/api/cron/reminders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/cron/reminders", "wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/cron/reminders", "cron-secret", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"documentsExpiring":1,"organizationsNotified":1,"emailsSent":1}`, rec.Body.String())
	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, []string{"owner@acme.test"}, s.mailer.sent[0].To)
}
