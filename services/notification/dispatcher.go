package notification

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"movecall/models"
	"movecall/services/tasks"
)

// Dispatcher fans notifications out per template. The booking coordinator and
// the call-flow engine call it; it never returns errors to them.
type Dispatcher struct {
	queue    *asynq.Client
	direct   *Service
	payments PaymentLinker
	logger   *zap.Logger
}

// NewDispatcher builds a Dispatcher. queue may be nil, in which case every
// send goes directly through the Service on the calling goroutine; payments
// may be nil, which skips the payment-link SMS.
func NewDispatcher(queue *asynq.Client, direct *Service, payments PaymentLinker, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{queue: queue, direct: direct, payments: payments, logger: logger}
}

// BookingConfirmed sends the confirmation email, the confirmation SMS, and,
// when payments are configured, a deposit payment link by SMS.
func (d *Dispatcher) BookingConfirmed(ctx context.Context, booking *models.Booking) {
	d.dispatch(ctx, models.NotifyPayload{
		Template:  models.TemplateBookingConfirmation,
		Channel:   models.ChannelEmail,
		Booking:   booking,
		Recipient: booking.Customer,
	})
	d.dispatch(ctx, models.NotifyPayload{
		Template:  models.TemplateBookingConfirmation,
		Channel:   models.ChannelSMS,
		Booking:   booking,
		Recipient: booking.Customer,
	})

	if d.payments == nil {
		return
	}
	url, err := d.payments.CreateLink(booking)
	if err != nil {
		d.logger.Error("payment link creation failed",
			zap.String("bookingId", booking.BookingID), zap.Error(err))
		return
	}
	d.dispatch(ctx, models.NotifyPayload{
		Template:   models.TemplatePaymentLink,
		Channel:    models.ChannelSMS,
		Booking:    booking,
		Recipient:  booking.Customer,
		PaymentURL: url,
	})
}

// BookingCancelled tells the customer their booking was cancelled.
func (d *Dispatcher) BookingCancelled(ctx context.Context, booking *models.Booking) {
	for _, channel := range []string{models.ChannelEmail, models.ChannelSMS} {
		d.dispatch(ctx, models.NotifyPayload{
			Template:  models.TemplateCancellation,
			Channel:   channel,
			Booking:   booking,
			Recipient: booking.Customer,
		})
	}
}

// BookingRescheduled tells the customer their booking moved to a new window.
func (d *Dispatcher) BookingRescheduled(ctx context.Context, booking *models.Booking) {
	for _, channel := range []string{models.ChannelEmail, models.ChannelSMS} {
		d.dispatch(ctx, models.NotifyPayload{
			Template:  models.TemplateReschedule,
			Channel:   channel,
			Booking:   booking,
			Recipient: booking.Customer,
		})
	}
}

// QuoteEmail sends the quote-only email after a caller declines to book but
// asks for the numbers in writing.
func (d *Dispatcher) QuoteEmail(ctx context.Context, recipient models.Customer, q *models.QuoteBreakdown, route *models.Route) {
	d.dispatch(ctx, models.NotifyPayload{
		Template:  models.TemplateQuoteOnly,
		Channel:   models.ChannelEmail,
		Recipient: recipient,
		Quote:     q,
		Route:     route,
	})
}

// dispatch enqueues the payload, falling back to a direct send when the queue
// is unavailable. Failures are logged and dropped.
func (d *Dispatcher) dispatch(ctx context.Context, p models.NotifyPayload) {
	if d.queue != nil {
		task, err := tasks.NewNotifyTask(p)
		if err == nil {
			if _, err = d.queue.EnqueueContext(ctx, task); err == nil {
				return
			}
		}
		d.logger.Warn("notify enqueue failed, sending directly",
			zap.String("template", p.Template), zap.String("channel", p.Channel), zap.Error(err))
	}
	if err := d.direct.Send(ctx, p); err != nil {
		d.logger.Error("notification send failed",
			zap.String("template", p.Template), zap.String("channel", p.Channel), zap.Error(err))
	}
}
