package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/internal/repositories"
	"coivault/pkg/metrics"
)

// ReminderHorizon is how far ahead the sweep looks for expiring documents.
const ReminderHorizon = 7 * day

type SweepResult struct {
	DocumentsExpiring     int `json:"documentsExpiring"`
	OrganizationsNotified int `json:"organizationsNotified"`
	EmailsSent            int `json:"emailsSent"`
	EmailsFailed          int `json:"-"`
}

type ReminderService interface {
	// Authorized reports whether an Authorization header carries the cron
	// secret. It is always false when no secret is configured.
	Authorized(authHeader string) bool
	// Sweep notifies the owners of every organization holding documents that
	// expire within ReminderHorizon of now. A failed send is logged and the
	// sweep moves on; EmailsSent counts successful sends only.
	Sweep(ctx context.Context, now time.Time) (*SweepResult, error)
}

type reminderService struct {
	docRepo repositories.DocumentRepository
	orgRepo repositories.OrganizationRepository
	mail    MailService
	metrics *metrics.Metrics
	secret  string
	appURL  string
	log     *zap.Logger
}

func NewReminderService(
	docRepo repositories.DocumentRepository,
	orgRepo repositories.OrganizationRepository,
	mail MailService,
	m *metrics.Metrics,
	cfg *config.Config,
	log *zap.Logger,
) ReminderService {
	return &reminderService{
		docRepo: docRepo,
		orgRepo: orgRepo,
		mail:    mail,
		metrics: m,
		secret:  cfg.CronSecret,
		appURL:  cfg.AppURL,
		log:     log.Named("reminders"),
	}
}

func (r *reminderService) Authorized(authHeader string) bool {
	if r.secret == "" {
		return false
	}
	expected := "Bearer " + r.secret
	return subtle.ConstantTimeCompare([]byte(authHeader), []byte(expected)) == 1
}

type orgReminder struct {
	orgID     uuid.UUID
	orgName   string
	documents []ReminderDocument
}

func (r *reminderService) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	docs, err := r.docRepo.ListExpiring(ctx, now, now.Add(ReminderHorizon))
	if err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}

	var (
		groups []*orgReminder
		byOrg  = make(map[uuid.UUID]*orgReminder)
	)
	for _, doc := range docs {
		orgID := doc.Vendor.OrgID
		group, ok := byOrg[orgID]
		if !ok {
			group = &orgReminder{orgID: orgID, orgName: doc.Vendor.Organization.Name}
			byOrg[orgID] = group
			groups = append(groups, group)
		}
		group.documents = append(group.documents, ReminderDocument{
			Title:      doc.Title,
			VendorName: doc.Vendor.Name,
			ExpiryDate: doc.ExpiryDate,
		})
	}

	orgIDs := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		orgIDs = append(orgIDs, g.orgID)
	}
	owners, err := r.orgRepo.OwnerEmails(ctx, orgIDs)
	if err != nil {
		return nil, fmt.Errorf("load owner emails: %w", err)
	}

	result := &SweepResult{
		DocumentsExpiring:     len(docs),
		OrganizationsNotified: len(groups),
	}

	for _, g := range groups {
		emails := owners[g.orgID]
		if len(emails) == 0 {
			r.log.Warn("Organization has expiring documents but no owner email", zap.String("org_id", g.orgID.String()))
			continue
		}

		subject, html, err := BuildExpiryReminderEmail(g.orgName, g.documents, r.appURL)
		if err != nil {
			return nil, err
		}

		for _, email := range emails {
			if err := r.mail.Send(ctx, EmailMessage{To: []string{email}, Subject: subject, HTML: html}); err != nil {
				result.EmailsFailed++
				r.log.Error("Reminder email failed",
					zap.String("org_id", g.orgID.String()),
					zap.String("to", email),
					zap.Error(err))
				continue
			}
			result.EmailsSent++
		}
	}

	r.log.Info("Reminder sweep finished",
		zap.Int("documents_expiring", result.DocumentsExpiring),
		zap.Int("organizations_notified", result.OrganizationsNotified),
		zap.Int("emails_sent", result.EmailsSent),
		zap.Int("emails_failed", result.EmailsFailed))
	if r.metrics != nil {
		r.metrics.ReminderSweepDone(result.DocumentsExpiring, result.OrganizationsNotified, result.EmailsSent, result.EmailsFailed)
	}

	return result, nil
}
