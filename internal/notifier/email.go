package notifier

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/devsphere/enrollment-api/internal/config"
)

// EmailNotifier sends enrollment confirmations over SMTP.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailNotifier creates an EmailNotifier from SMTP configuration.
func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendEnrollmentConfirmation sends the templated confirmation email. The
// transport has no context support; callers bound the call through their own
// timeout and downgrade errors to warnings.
func (n *EmailNotifier) SendEnrollmentConfirmation(_ context.Context, email, name, programTitle string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", confirmationSubject(programTitle))
	m.SetBody("text/plain", confirmationBody(name, programTitle))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func confirmationSubject(programTitle string) string {
	return fmt.Sprintf("Enrollment confirmed: %s", programTitle)
}

func confirmationBody(name, programTitle string) string {
	return fmt.Sprintf(`Hi %s,

Your enrollment in %s is confirmed. Your mentor will reach out within 24 hours
with the onboarding details and your first session schedule.

If anything looks off, reply to this email and we'll sort it out.

The DevSphere Mentorship Team`, name, programTitle)
}
