package notification

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentlink"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"movecall/config"
	"movecall/models"
)

// SMSSender delivers a single text message.
type SMSSender interface {
	SendSMS(to, body string) error
}

// PaymentLinker creates a hosted deposit-payment URL for a booking.
type PaymentLinker interface {
	CreateLink(booking *models.Booking) (string, error)
}

type twilioSMS struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSMS builds the production SMS sender from AppConfig.
func NewTwilioSMS() SMSSender {
	cfg := config.AppConfig
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &twilioSMS{client: client, from: cfg.TwilioSMSFrom}
}

func (t *twilioSMS) SendSMS(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)
	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	return nil
}

type stripeLinker struct {
	depositPriceID string
}

// NewStripeLinker builds the production payment-link creator. The Stripe API
// key is set globally at startup.
func NewStripeLinker() PaymentLinker {
	return &stripeLinker{depositPriceID: config.AppConfig.StripeDepositPriceID}
}

func (s *stripeLinker) CreateLink(booking *models.Booking) (string, error) {
	if s.depositPriceID == "" {
		return "", fmt.Errorf("deposit price not configured")
	}
	params := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(s.depositPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"booking_id": booking.BookingID,
		},
	}
	link, err := paymentlink.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment link for %s: %w", booking.BookingID, err)
	}
	return link.URL, nil
}
