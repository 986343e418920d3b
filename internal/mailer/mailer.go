// Package mailer delivers transactional mail over SMTP. Templates are
// embedded so deliverability does not depend on the working directory.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/orghub/orghub/internal/config"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Mailer interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}

// NoOp drops every message. Used in tests and local setups without an
// SMTP relay.
type NoOp struct{}

func (NoOp) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}

func (NoOp) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	return nil
}

type SMTPMailer struct {
	log       *zap.Logger
	host      string
	port      int
	username  string
	password  string
	from      string
	templates *template.Template
}

func NewSMTP(log *zap.Logger, cfg config.Config) (*SMTPMailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &SMTPMailer{
		log:       log.Named("mailer"),
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		from:      cfg.SMTPFrom,
		templates: templates,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", to[0], subject, mime, htmlBody))

	if err := smtp.SendMail(addr, auth, m.from, to, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Info("mail sent", zap.String("subject", subject))
	return nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	var body bytes.Buffer
	err := m.templates.ExecuteTemplate(&body, "password_reset.html", map[string]any{
		"Email": to,
		"Token": resetToken,
	})
	if err != nil {
		return fmt.Errorf("render password reset mail: %w", err)
	}
	return m.Send(ctx, []string{to}, "Password recovery", body.String())
}
