package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/harmos/intakebot/internal/models"
)

// Email is one composed candidature notification ready for transport.
type Email struct {
	Subject     string
	HTML        string
	CC          string
	Attachments []models.StagedFile
}

// ComposeCandidature renders the submitted form fields and attachments into
// the notification email. Field values are HTML-escaped; internal error
// details never appear in the composed body.
func ComposeCandidature(fields []models.FormField, files []models.StagedFile) Email {
	var b strings.Builder
	b.WriteString("<h2>Nouvelle candidature Harmos</h2>")

	var name, cc string
	for _, f := range fields {
		if f.Key == "name" {
			name = f.Value
		}
		if f.Key == "emailDestination" {
			cc = f.Value
		}
		b.WriteString(fmt.Sprintf("<p><strong>%s :</strong> %s</p>",
			html.EscapeString(f.Key), html.EscapeString(f.Value)))
	}
	if len(files) > 0 {
		b.WriteString("<h3>Fichiers joints :</h3>")
		for _, f := range files {
			escaped := html.EscapeString(f.Name)
			b.WriteString(fmt.Sprintf("<p><a href=\"cid:%s\">%s</a></p>", escaped, escaped))
		}
	}

	return Email{
		Subject:     "Nouvelle candidature Harmos - " + name,
		HTML:        b.String(),
		CC:          cc,
		Attachments: files,
	}
}

// Sender delivers a composed email. Implemented by the SMTP sender; faked in
// tests.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SMTPSender delivers candidature emails over SMTP with implicit TLS.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// SMTPOption configures an SMTPSender.
type SMTPOption func(*SMTPSender)

// WithSMTPHost sets the SMTP host and port.
func WithSMTPHost(host string, port int) SMTPOption {
	return func(s *SMTPSender) {
		s.host = host
		s.port = port
	}
}

// WithSMTPCredentials sets the SMTP account. The account address is also
// used as both envelope sender and recipient, matching the fixed-inbox
// deployment.
func WithSMTPCredentials(username, password string) SMTPOption {
	return func(s *SMTPSender) {
		s.username = username
		s.password = password
		s.from = username
		s.to = username
	}
}

// Default SMTP endpoint used when no host is configured.
const (
	DefaultSMTPHost = "smtp.hostinger.com"
	DefaultSMTPPort = 465
)

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(opts ...SMTPOption) *SMTPSender {
	s := &SMTPSender{
		host: DefaultSMTPHost,
		port: DefaultSMTPPort,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send composes and delivers the email. Transport errors are wrapped; the
// caller is responsible for converting them to a user-safe failure.
func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	if email.CC != "" {
		if err := msg.Cc(email.CC); err != nil {
			// A bad cc must not lose the candidature; deliver without it.
			slog.Warn("SMTPSender.Send: dropping invalid cc address", "error", err)
		}
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, email.HTML)
	for _, f := range email.Attachments {
		if err := msg.AttachReader(f.Name, bytes.NewReader(f.Content)); err != nil {
			return fmt.Errorf("failed to attach %s: %w", f.Name, err)
		}
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send candidature email: %w", err)
	}
	slog.Info("SMTPSender.Send: candidature email delivered", "subject", email.Subject, "attachments", len(email.Attachments))
	return nil
}
