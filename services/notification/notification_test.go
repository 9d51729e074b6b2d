package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"movecall/models"
	"movecall/services/quote"

	"go.uber.org/zap"
)

type recordingMailer struct {
	to, subject, body string
	err               error
	sends             int
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sends++
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

type recordingSMS struct {
	to, body string
	err      error
	sends    int
}

func (s *recordingSMS) SendSMS(to, body string) error {
	s.sends++
	s.to, s.body = to, body
	return s.err
}

type fakeLinker struct {
	url string
	err error
}

func (f *fakeLinker) CreateLink(_ *models.Booking) (string, error) {
	return f.url, f.err
}

func sampleBooking() *models.Booking {
	breakdown := quote.Calculate(models.CategoryFullService, 10, 2, 4)
	return &models.Booking{
		BookingID: "MV-7KQ2NX",
		Customer:  models.Customer{Name: "Jane Doe", Phone: "+15125550100", Email: "jane@example.com"},
		Schedule:  models.Schedule{Date: "2026-09-15", Slot: models.SlotMorning},
		Service:   models.ServiceDescriptor{Category: models.CategoryFullService, CrewSize: 2, Label: "Full Service Moving - 2 Movers"},
		Route:     models.Route{PickupAddress: "100 Main St", DeliveryAddress: "200 Oak Ave", DistanceMiles: 10},
		Price:     breakdown,
		Status:    models.BookingStatusConfirmed,
	}
}

func TestSendConfirmationEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, nil, zap.NewNop())

	err := svc.Send(context.Background(), models.NotifyPayload{
		Template:  models.TemplateBookingConfirmation,
		Channel:   models.ChannelEmail,
		Booking:   sampleBooking(),
		Recipient: sampleBooking().Customer,
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if mailer.to != "jane@example.com" {
		t.Errorf("sent to %q", mailer.to)
	}
	if !strings.Contains(mailer.subject, "MV-7KQ2NX") {
		t.Errorf("subject %q missing booking ref", mailer.subject)
	}
	for _, want := range []string{"2026-09-15", "8 to 9 AM", "$912", "100 Main St"} {
		if !strings.Contains(mailer.body, want) {
			t.Errorf("body missing %q:\n%s", want, mailer.body)
		}
	}
}

func TestSendConfirmationSMS(t *testing.T) {
	sms := &recordingSMS{}
	svc := NewService(nil, sms, zap.NewNop())

	err := svc.Send(context.Background(), models.NotifyPayload{
		Template:  models.TemplateBookingConfirmation,
		Channel:   models.ChannelSMS,
		Booking:   sampleBooking(),
		Recipient: sampleBooking().Customer,
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if sms.to != "+15125550100" {
		t.Errorf("sent to %q", sms.to)
	}
	if !strings.Contains(sms.body, "MV-7KQ2NX") || !strings.Contains(sms.body, "8 to 9 AM") {
		t.Errorf("sms body %q", sms.body)
	}
}

func TestSendQuoteOnlyEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, nil, zap.NewNop())

	breakdown := quote.Calculate(models.CategoryLaborOnly, 10, 2, 3)
	err := svc.Send(context.Background(), models.NotifyPayload{
		Template:  models.TemplateQuoteOnly,
		Channel:   models.ChannelEmail,
		Recipient: models.Customer{Name: "Bob Smith", Email: "bob@example.com"},
		Quote:     &breakdown,
		Route:     &models.Route{PickupAddress: "1 A St", DeliveryAddress: "2 B St", DistanceMiles: 10},
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	for _, want := range []string{"Labor Only", "$421", "good for 14 days"} {
		if !strings.Contains(mailer.body, want) {
			t.Errorf("body missing %q:\n%s", want, mailer.body)
		}
	}
}

func TestSendMissingRecipient(t *testing.T) {
	svc := NewService(&recordingMailer{}, &recordingSMS{}, zap.NewNop())

	err := svc.Send(context.Background(), models.NotifyPayload{
		Template: models.TemplateBookingConfirmation,
		Channel:  models.ChannelEmail,
		Booking:  sampleBooking(),
	})
	if err == nil {
		t.Error("expected error for missing recipient email")
	}
}

func TestDispatcherBookingConfirmed(t *testing.T) {
	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	svc := NewService(mailer, sms, zap.NewNop())
	d := NewDispatcher(nil, svc, &fakeLinker{url: "https://pay.example/x"}, zap.NewNop())

	d.BookingConfirmed(context.Background(), sampleBooking())

	if mailer.sends != 1 {
		t.Errorf("email sends = %d, want 1", mailer.sends)
	}
	if sms.sends != 2 {
		t.Errorf("sms sends = %d, want 2 (confirmation + payment link)", sms.sends)
	}
	if !strings.Contains(sms.body, "https://pay.example/x") {
		t.Errorf("last sms %q should carry the payment link", sms.body)
	}
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	sms := &recordingSMS{err: errors.New("twilio down")}
	svc := NewService(mailer, sms, zap.NewNop())
	d := NewDispatcher(nil, svc, &fakeLinker{err: errors.New("stripe down")}, zap.NewNop())

	// Must not panic or propagate anything.
	d.BookingConfirmed(context.Background(), sampleBooking())
	d.QuoteEmail(context.Background(), sampleBooking().Customer, &sampleBooking().Price, nil)

	if mailer.sends == 0 || sms.sends == 0 {
		t.Error("sends were not attempted")
	}
}
