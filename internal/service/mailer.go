package service

import (
	"context"
	"fmt"
	"net/smtp"

	"custodial-wallet-service/config"

	"github.com/rs/zerolog"
)

// SMTPMailer implements ports.Mailer over plain SMTP. With an empty host it
// runs in log-only mode, which is what local development uses.
type SMTPMailer struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg config.SMTPConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// SendVerificationCode emails a signup verification code.
func (m *SMTPMailer) SendVerificationCode(_ context.Context, to, code string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf("Your verification code is: %s\r\n\r\nIt expires shortly; if you did not sign up, ignore this email.", code)
	return m.send(to, subject, body)
}

// SendPasswordReset emails a password reset token.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, resetToken string) error {
	subject := "Password reset requested"
	body := fmt.Sprintf("Use this token to reset your password: %s\r\n\r\nIf you did not request a reset, ignore this email.", resetToken)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		m.log.Info().Str("to", to).Str("subject", subject).Msg("mail delivery disabled, message logged only")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.FromEmail, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
