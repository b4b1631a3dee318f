package notifications

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"github.com/MishalQamar/appointment-booking-system/pkg/config"
)

// SMTPSender delivers confirmation emails over plain SMTP. With empty
// credentials it sends unauthenticated, which works against local relays
// like Mailpit.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg: cfg,
	}
}

// Send sends an email to a single recipient
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.Enabled {
		log.Debug().Str("to", to).Str("subject", subject).Msg("email delivery disabled, dropping message")
		return nil
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := buildMessage(s.cfg.From, to, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.cfg.SMTPAddr(), auth, s.cfg.From, []string{to}, []byte(msg))
	}()

	// smtp.SendMail has no context support, so honour cancellation here.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	}
}

// buildMessage assembles a minimal RFC 5322 message; enough for Mailpit and
// most SMTP relays.
func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
