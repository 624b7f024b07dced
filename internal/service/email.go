package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional mail through Resend. In development no
// client is created and every send is logged instead, which also lets the
// password-reset flow run end to end without a mail transport.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appName:   appName,
		isDev:     isDev,
	}
}

func (s *EmailService) SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error {
	subject, body := passwordResetEmailTemplate(name, resetURL, s.appName, expiresIn)
	return s.send("password_reset", to, subject, body)
}

func (s *EmailService) SendAppointmentEmail(to, name, title, detail string) error {
	subject, body := appointmentEmailTemplate(name, title, detail, s.appName)
	return s.send("appointment", to, subject, body)
}

func (s *EmailService) send(kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "body", body)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
