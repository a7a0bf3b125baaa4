package mailer

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/config"
)

// Mailer delivers one-time codes. The boolean reports whether an email was
// actually handed to the provider: an unconfigured provider is a soft skip
// (false, nil), while a configured provider that fails to send is an error.
// Callers decide how to surface each case.
type Mailer interface {
	SendVerificationCode(email, code string) (bool, error)
	SendPasswordResetCode(email, code string) (bool, error)
}

type resendMailer struct {
	config *config.EmailConfig
	log    *zap.Logger
	client *resend.Client
}

func NewMailer(config *config.EmailConfig, log *zap.Logger) Mailer {
	m := &resendMailer{
		config: config,
		log:    log,
	}
	if config.APIKey != "" {
		m.client = resend.NewClient(config.APIKey)
	}
	return m
}

func (m *resendMailer) SendVerificationCode(email, code string) (bool, error) {
	return m.send(
		email,
		"Your HomeCook verification code",
		codeEmailHTML("Verify your HomeCook account", "Use this code to verify your email:", code),
	)
}

func (m *resendMailer) SendPasswordResetCode(email, code string) (bool, error) {
	return m.send(
		email,
		"Your HomeCook password reset code",
		codeEmailHTML("Reset your HomeCook password", "Use this code to reset your password:", code),
	)
}

func (m *resendMailer) send(to, subject, html string) (bool, error) {
	if m.client == nil {
		m.log.Warn("email provider not configured, falling back to log output",
			zap.String("to", to),
			zap.String("subject", subject))
		return false, nil
	}

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.config.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return false, fmt.Errorf("email send failed: %w", err)
	}

	return true, nil
}

func codeEmailHTML(heading, instruction, code string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;line-height:1.5">
  <h2>%s</h2>
  <p>%s</p>
  <p style="font-size:28px;font-weight:bold;letter-spacing:3px">%s</p>
  <p>This code expires in 15 minutes.</p>
</div>`, heading, instruction, code)
}
