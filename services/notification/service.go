// Package notification sends confirmation, quote, and payment-link messages
// over email and SMS. Sends are fire-and-forget: each failure is logged and
// never propagates to the call turn that triggered it.
package notification

import (
	"context"
	"fmt"

	"movecall/models"
	"movecall/utils"

	"go.uber.org/zap"
)

// Service performs a single channel send. The asynq worker and the direct
// dispatcher both route through it.
type Service struct {
	mailer utils.Mailer
	sms    SMSSender
	logger *zap.Logger
}

// NewService builds the sender service. Either channel may be nil; sends on a
// missing channel are reported as failures.
func NewService(mailer utils.Mailer, sms SMSSender, logger *zap.Logger) *Service {
	return &Service{mailer: mailer, sms: sms, logger: logger}
}

// Send delivers one rendered message on one channel.
func (s *Service) Send(ctx context.Context, p models.NotifyPayload) error {
	switch p.Channel {
	case models.ChannelEmail:
		if s.mailer == nil {
			return fmt.Errorf("email channel not configured")
		}
		if p.Recipient.Email == "" {
			return fmt.Errorf("no recipient email for template %s", p.Template)
		}
		subject, body := renderEmail(p)
		if subject == "" {
			return fmt.Errorf("no email rendering for template %s", p.Template)
		}
		return s.mailer.Send(p.Recipient.Email, subject, body)

	case models.ChannelSMS:
		if s.sms == nil {
			return fmt.Errorf("sms channel not configured")
		}
		if p.Recipient.Phone == "" {
			return fmt.Errorf("no recipient phone for template %s", p.Template)
		}
		body := renderSMS(p)
		if body == "" {
			return fmt.Errorf("no sms rendering for template %s", p.Template)
		}
		return s.sms.SendSMS(p.Recipient.Phone, body)
	}
	return fmt.Errorf("unknown channel %q", p.Channel)
}
