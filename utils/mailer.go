package utils

import (
	"fmt"
	"net/smtp"

	"movecall/config"
)

// Mailer sends plain-text email over SMTP.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	auth smtp.Auth
	addr string
	from string
}

// NewMailer builds a Mailer from the SMTP settings in AppConfig.
func NewMailer() Mailer {
	cfg := config.AppConfig
	return &smtpMailer{
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		from: cfg.SMTPFrom,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body))
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
