// Command seed loads a demo tenant with sample vendors and documents.
// Running it again is a no-op once the demo user exists.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coivault/internal/config"
	"coivault/internal/infra"
	"coivault/internal/models/request_models"
	"coivault/internal/repositories"
	"coivault/internal/services"
	"coivault/pkg/logger"
	mem "coivault/pkg/memcache"
	"coivault/pkg/utils"
)

const (
	demoEmail    = "demo@coivault.com"
	demoPassword = "demo1234"
	demoOrgName  = "Acme Property Management"
)

type seedDocument struct {
	title  string
	kind   string
	url    string
	expiry time.Duration
}

type seedVendor struct {
	req       request_models.CreateVendorRequest
	documents []seedDocument
}

var demoVendors = []seedVendor{
	{
		req: request_models.CreateVendorRequest{
			Name:    "ABC Plumbing",
			Email:   "contact@abcplumbing.com",
			Phone:   "555-0101",
			Company: "ABC Plumbing Co.",
		},
		documents: []seedDocument{
			{"General Liability COI", "COI", "https://example.com/docs/abc-coi.pdf", 5 * 24 * time.Hour},
			{"WSIB Certificate", "WSIB", "https://example.com/docs/abc-wsib.pdf", 90 * 24 * time.Hour},
		},
	},
	{
		req: request_models.CreateVendorRequest{
			Name:    "XYZ Electrical",
			Email:   "info@xyzelectrical.com",
			Phone:   "555-0202",
			Company: "XYZ Electrical Inc.",
		},
		documents: []seedDocument{
			{"Professional Liability COI", "COI", "https://example.com/docs/xyz-coi.pdf", 12 * 24 * time.Hour},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := infra.InitPostgresql(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	err = seed(context.Background(), cfg, repositoriesFor(db), log)
	infra.ClosePostgresql(db, log)
	if err != nil {
		log.Error("Seed failed", zap.Error(err))
		os.Exit(1)
	}
}

type repos struct {
	accounts repositories.AccountRepository
	orgs     repositories.OrganizationRepository
	vendors  repositories.VendorRepository
	docs     repositories.DocumentRepository
	subs     repositories.SubscriptionRepository
	audit    repositories.AuditRepository
}

func seed(ctx context.Context, cfg *config.Config, r repos, log *zap.Logger) error {
	existing, err := r.accounts.FindByEmail(ctx, demoEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info("Demo user already exists, nothing to do", zap.String("email", demoEmail))
		return nil
	}

	cache := mem.NewViewCache()
	audit := services.NewAuditService(r.audit, log)
	accounts := services.NewAccountService(r.accounts, r.orgs, audit, utils.NewJWTManager(cfg.JWTSecret, time.Hour), cache, log)
	vendors := services.NewVendorService(r.vendors, r.subs, audit, cache, nil, log)
	documents := services.NewDocumentService(r.docs, r.vendors, r.subs, audit, cache, nil, log)

	auth, err := accounts.SignUp(ctx, request_models.SignUpRequest{
		Name:     "Demo User",
		Email:    demoEmail,
		Password: demoPassword,
		OrgName:  demoOrgName,
	})
	if err != nil {
		return err
	}
	log.Info("Demo user created", zap.String("email", demoEmail), zap.String("organization", auth.OrgName))

	userID, err := uuid.Parse(auth.UserID)
	if err != nil {
		return err
	}
	org, err := accounts.ResolveOrgContext(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, v := range demoVendors {
		vendorID, err := vendors.CreateVendor(ctx, *org, v.req)
		if err != nil {
			return err
		}
		for _, d := range v.documents {
			_, err := documents.CreateDocument(ctx, *org, request_models.CreateDocumentRequest{
				Title:      d.title,
				Type:       d.kind,
				URL:        d.url,
				ExpiryDate: now.Add(d.expiry).Format(time.RFC3339),
				VendorID:   vendorID.String(),
			})
			if err != nil {
				return err
			}
		}
		log.Info("Vendor seeded", zap.String("vendor", v.req.Name), zap.Int("documents", len(v.documents)))
	}

	log.Info("Seed complete", zap.String("login", demoEmail+" / "+demoPassword))
	return nil
}

func repositoriesFor(db *gorm.DB) repos {
	return repos{
		accounts: repositories.NewAccountRepository(db),
		orgs:     repositories.NewOrganizationRepository(db),
		vendors:  repositories.NewVendorRepository(db),
		docs:     repositories.NewDocumentRepository(db),
		subs:     repositories.NewSubscriptionRepository(db),
		audit:    repositories.NewAuditRepository(db),
	}
}
