package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"coivault/internal/config"
	"coivault/pkg/utils"
)

type EmailMessage struct {
	To      []string
	Subject string
	HTML    string
}

// MailService delivers HTML email. Without SMTP credentials the stub
// implementation logs messages instead of sending them.
type MailService interface {
	Send(ctx context.Context, msg EmailMessage) error
}

func NewMailService(cfg *config.Config, log *zap.Logger) MailService {
	if !cfg.SMTP.Enabled() {
		log.Warn("SMTP not configured, emails will be logged instead of sent")
		return &logMailService{log: log.Named("mail")}
	}
	return &smtpMailService{cfg: cfg.SMTP, log: log.Named("mail")}
}

type logMailService struct {
	log *zap.Logger
}

func (l *logMailService) Send(_ context.Context, msg EmailMessage) error {
	l.log.Info("[EMAIL STUB]",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)))
	l.log.Debug("[EMAIL STUB] body", zap.String("html", msg.HTML))
	return nil
}

type smtpMailService struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func (s *smtpMailService) Send(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("send mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body := s.buildMessage(msg)
	if err := s.deliver(ctx, msg.To, body); err != nil {
		s.log.Error("Failed to send email", zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *smtpMailService) buildMessage(msg EmailMessage) []byte {
	var buf bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&buf, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", strings.Join(msg.To, ", "))
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n")
	write("\r\n")
	write("%s\r\n", msg.HTML)

	return buf.Bytes()
}

// deliver uses implicit TLS on port 465 and STARTTLS otherwise.
func (s *smtpMailService) deliver(ctx context.Context, to []string, body []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.Port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if s.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("server does not support STARTTLS")
		}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	username := s.cfg.Username
	if username == "" {
		username = s.cfg.From
	}
	if err = c.Auth(smtp.PlainAuth("", username, s.cfg.Password, s.cfg.Host)); err != nil {
		return err
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err = c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(body); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}

// ------------------- Rendering -------------------

type ReminderDocument struct {
	Title      string
	VendorName string
	ExpiryDate time.Time
}

type reminderEmailData struct {
	OrgName      string
	Documents    []reminderRow
	DashboardURL string
}

type reminderRow struct {
	VendorName string
	Title      string
	Expiry     string
}

var reminderTpl = template.Must(template.New("reminder").Parse(reminderHTMLTemplate))

// BuildExpiryReminderEmail renders the subject and HTML body listing every
// expiring document of one organization.
func BuildExpiryReminderEmail(orgName string, docs []ReminderDocument, appURL string) (string, string, error) {
	rows := make([]reminderRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, reminderRow{
			VendorName: d.VendorName,
			Title:      d.Title,
			Expiry:     utils.FormatDisplayDate(d.ExpiryDate),
		})
	}

	var buf bytes.Buffer
	err := reminderTpl.Execute(&buf, reminderEmailData{
		OrgName:      orgName,
		Documents:    rows,
		DashboardURL: strings.TrimRight(appURL, "/") + "/dashboard",
	})
	if err != nil {
		return "", "", fmt.Errorf("render reminder email: %w", err)
	}

	subject := fmt.Sprintf("COI Vault: %d document(s) expiring soon", len(docs))
	return subject, buf.String(), nil
}

const reminderHTMLTemplate = `<div style="font-family:sans-serif;max-width:600px;margin:0 auto;">
  <h2 style="color:#1e40af;">COI Vault Expiry Reminder</h2>
  <p>Hi <strong>{{.OrgName}}</strong> team,</p>
  <p>The following vendor documents are expiring within 7 days:</p>
  <table style="width:100%;border-collapse:collapse;">
    <thead>
      <tr style="background:#f1f5f9;">
        <th style="padding:8px;text-align:left;">Vendor</th>
        <th style="padding:8px;text-align:left;">Document</th>
        <th style="padding:8px;text-align:left;">Expiry</th>
      </tr>
    </thead>
    <tbody>
{{- range .Documents}}
      <tr>
        <td style="padding:8px;border-bottom:1px solid #eee;">{{.VendorName}}</td>
        <td style="padding:8px;border-bottom:1px solid #eee;">{{.Title}}</td>
        <td style="padding:8px;border-bottom:1px solid #eee;color:#dc2626;">{{.Expiry}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
  <p style="margin-top:16px;">
    <a href="{{.DashboardURL}}" style="background:#1e40af;color:#fff;padding:10px 20px;border-radius:6px;text-decoration:none;display:inline-block;">View Dashboard</a>
  </p>
  <p style="color:#6b7280;font-size:12px;margin-top:24px;">
    This is an automated reminder from COI Vault. No insurance or legal advice is provided.
  </p>
</div>
`
