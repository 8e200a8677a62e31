package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coivault/internal/config"
	"coivault/internal/models/db_models"
	"coivault/internal/models/request_models"
	"coivault/internal/repositories"
	"coivault/internal/testutil"
	mem "coivault/pkg/memcache"
	"coivault/pkg/metrics"
	"coivault/pkg/utils"
)

type fixture struct {
	db      *gorm.DB
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	cache   *mem.MemoryViewCache
	jwt     *utils.JWTManager

	accountRepo repositories.AccountRepository
	orgRepo     repositories.OrganizationRepository
	vendorRepo  repositories.VendorRepository
	docRepo     repositories.DocumentRepository
	subRepo     repositories.SubscriptionRepository
	auditRepo   repositories.AuditRepository
	eventRepo   repositories.BillingEventRepository

	audit    AuditService
	accounts AccountServiceInterface
	vendors  VendorService
	docs     DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		AppURL:     "https://app.coivault.test",
		CronSecret: "cron-secret",
		Stripe: config.StripeConfig{
			SecretKey:     "sk_test_123",
			WebhookSecret: "whsec_test",
			ProPriceID:    "price_pro",
			TeamPriceID:   "price_team",
		},
	}

	f := &fixture{
		db:          db,
		cfg:         cfg,
		log:         zap.NewNop(),
		metrics:     metrics.New(),
		cache:       mem.NewViewCache(),
		jwt:         utils.NewJWTManager(cfg.JWTSecret, time.Hour),
		accountRepo: repositories.NewAccountRepository(db),
		orgRepo:     repositories.NewOrganizationRepository(db),
		vendorRepo:  repositories.NewVendorRepository(db),
		docRepo:     repositories.NewDocumentRepository(db),
		subRepo:     repositories.NewSubscriptionRepository(db),
		auditRepo:   repositories.NewAuditRepository(db),
		eventRepo:   repositories.NewBillingEventRepository(db),
	}
	f.audit = NewAuditService(f.auditRepo, f.log)
	f.accounts = NewAccountService(f.accountRepo, f.orgRepo, f.audit, f.jwt, f.cache, f.log)
	f.vendors = NewVendorService(f.vendorRepo, f.subRepo, f.audit, f.cache, f.metrics, f.log)
	f.docs = NewDocumentService(f.docRepo, f.vendorRepo, f.subRepo, f.audit, f.cache, f.metrics, f.log)
	return f
}

// tenant signs up a fresh owner and returns the resolved context.
func (f *fixture) tenant(t *testing.T, email, orgName string) OrgContext {
	t.Helper()
	ctx := context.Background()

	resp, err := f.accounts.SignUp(ctx, request_models.SignUpRequest{
		Name:     "Owner",
		Email:    email,
		Password: "correct-horse",
		OrgName:  orgName,
	})
	require.NoError(t, err)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	userID, err := uuid.Parse(claims.UserID)
	require.NoError(t, err)

	org, err := f.accounts.ResolveOrgContext(ctx, userID)
	require.NoError(t, err)
	return *org
}

func (f *fixture) setPlan(t *testing.T, org OrgContext, plan db_models.Plan) {
	t.Helper()
	_, _, err := f.subRepo.UpdateByOrgID(context.Background(), org.OrgID, func(sub *db_models.Subscription) error {
		sub.Plan = plan
		return nil
	})
	require.NoError(t, err)
}

func (f *fixture) vendor(t *testing.T, org OrgContext, name string) string {
	t.Helper()
	id, err := f.vendors.CreateVendor(context.Background(), org, request_models.CreateVendorRequest{Name: name})
	require.NoError(t, err)
	return id.String()
}

func (f *fixture) document(t *testing.T, org OrgContext, vendorID, title string, expiry time.Time) string {
	t.Helper()
	id, err := f.docs.CreateDocument(context.Background(), org, request_models.CreateDocumentRequest{
		Title:      title,
		Type:       string(db_models.DocumentTypeCOI),
		URL:        "https://files.example.com/" + title,
		ExpiryDate: expiry.UTC().Format(time.RFC3339),
		VendorID:   vendorID,
	})
	require.NoError(t, err)
	return id.String()
}

func (f *fixture) auditActions(t *testing.T, org OrgContext) []string {
	t.Helper()
	page, err := f.audit.List(context.Background(), org, 1, maxAuditPageSize)
	require.NoError(t, err)
	actions := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		actions = append(actions, item.Action)
	}
	return actions
}

type fakeGateway struct {
	mu            sync.Mutex
	subscriptions map[string]*ExternalSubscription
	customers     []map[string]string
	checkouts     []CheckoutSessionRequest
	portals       []string
	err           error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{subscriptions: make(map[string]*ExternalSubscription)}
}

func (g *fakeGateway) CreateCustomer(_ context.Context, _ string, metadata map[string]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.customers = append(g.customers, metadata)
	return fmt.Sprintf("cus_%d", len(g.customers)), nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req CheckoutSessionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.checkouts = append(g.checkouts, req)
	return "https://checkout.stripe.test/" + req.PriceID, nil
}

func (g *fakeGateway) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.portals = append(g.portals, customerID)
	return "https://billing.stripe.test/" + customerID, nil
}

func (g *fakeGateway) GetSubscription(_ context.Context, subscriptionID string) (*ExternalSubscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sub, ok := g.subscriptions[subscriptionID]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	copied := *sub
	return &copied, nil
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []EmailMessage
	failTo map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range msg.To {
		if m.failTo[to] {
			return errors.New("smtp: connection refused")
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}
