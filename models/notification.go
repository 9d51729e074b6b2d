package models

// Notification templates dispatched by the notification service.
const (
	TemplateBookingConfirmation = "booking-confirmation" // email + SMS
	TemplatePaymentLink         = "payment-link"         // SMS only
	TemplateQuoteOnly           = "quote-only"           // email
	TemplateCancellation        = "cancellation"
	TemplateReschedule          = "reschedule"
)

// NotifyPayload is the asynq task payload for a single channel send.
type NotifyPayload struct {
	Template  string   `json:"template"`
	Channel   string   `json:"channel"` // "email" or "sms"
	Booking   *Booking `json:"booking,omitempty"`
	Recipient Customer `json:"recipient"`
	// Quote-only emails carry the breakdown without a booking.
	Quote *QuoteBreakdown `json:"quote,omitempty"`
	Route *Route          `json:"route,omitempty"`
	// PaymentURL is set on payment-link sends.
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
