package notification

import (
	"fmt"
	"strings"

	"movecall/models"
	"movecall/services/quote"
)

// renderEmail produces the subject and plain-text body for an email template.
func renderEmail(p models.NotifyPayload) (subject, body string) {
	switch p.Template {
	case models.TemplateBookingConfirmation:
		b := p.Booking
		return fmt.Sprintf("Your move is booked - %s", b.BookingID),
			strings.Join([]string{
				fmt.Sprintf("Hi %s,", firstName(b.Customer.Name)),
				"",
				"Your move is confirmed. Here are the details:",
				"",
				fmt.Sprintf("Booking reference: %s", b.BookingID),
				fmt.Sprintf("Date: %s, arrival window %s", b.Schedule.Date, b.Schedule.Slot.DisplayWindow()),
				fmt.Sprintf("Service: %s", b.Service.Label),
				fmt.Sprintf("From: %s", b.Route.PickupAddress),
				fmt.Sprintf("To: %s", b.Route.DeliveryAddress),
				fmt.Sprintf("Estimated total: $%d", quote.RoundedTotal(b.Price)),
				"",
				"Reply to this email or call us if anything changes.",
			}, "\n")

	case models.TemplateQuoteOnly:
		q := p.Quote
		lines := []string{
			fmt.Sprintf("Hi %s,", firstName(p.Recipient.Name)),
			"",
			"Here is the quote we discussed:",
			"",
			fmt.Sprintf("Service: %s, %d movers, estimated %d hours", q.Category.Label(), q.CrewSize, q.Hours),
		}
		if p.Route != nil {
			lines = append(lines,
				fmt.Sprintf("From: %s", p.Route.PickupAddress),
				fmt.Sprintf("To: %s (%.0f miles)", p.Route.DeliveryAddress, p.Route.DistanceMiles))
		}
		lines = append(lines,
			fmt.Sprintf("Hourly rate: $%d", quote.RoundedRate(*q)),
			fmt.Sprintf("Estimated total: $%d", quote.RoundedTotal(*q)),
			"",
			"This quote is good for 14 days. Call us back any time to book.")
		return "Your moving quote", strings.Join(lines, "\n")

	case models.TemplateCancellation:
		b := p.Booking
		return fmt.Sprintf("Booking %s cancelled", b.BookingID),
			fmt.Sprintf("Hi %s,\n\nYour booking %s for %s has been cancelled. We hope to see you again.",
				firstName(b.Customer.Name), b.BookingID, b.Schedule.Date)

	case models.TemplateReschedule:
		b := p.Booking
		return fmt.Sprintf("Booking %s rescheduled", b.BookingID),
			fmt.Sprintf("Hi %s,\n\nYour booking %s has moved to %s, arrival window %s.",
				firstName(b.Customer.Name), b.BookingID, b.Schedule.Date, b.Schedule.Slot.DisplayWindow())
	}
	return "", ""
}

// renderSMS produces the text-message body for an SMS template.
func renderSMS(p models.NotifyPayload) string {
	switch p.Template {
	case models.TemplateBookingConfirmation:
		b := p.Booking
		return fmt.Sprintf("Your move is booked! Ref %s, %s, arrival %s. %s. Questions? Just call us back.",
			b.BookingID, b.Schedule.Date, b.Schedule.Slot.DisplayWindow(), b.Service.Label)
	case models.TemplatePaymentLink:
		b := p.Booking
		return fmt.Sprintf("Secure your move (ref %s) with a deposit: %s", b.BookingID, p.PaymentURL)
	case models.TemplateCancellation:
		b := p.Booking
		return fmt.Sprintf("Your booking %s for %s has been cancelled.", b.BookingID, b.Schedule.Date)
	case models.TemplateReschedule:
		b := p.Booking
		return fmt.Sprintf("Your booking %s has moved to %s, arrival %s.",
			b.BookingID, b.Schedule.Date, b.Schedule.Slot.DisplayWindow())
	}
	return ""
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	if full == "" {
		return "there"
	}
	return full
}
