// Package calendar mirrors bookings into the crews' Google calendars and
// exposes each calendar as a schedule store for availability checks.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movecall/models"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CrewCalendar is one named external calendar.
type CrewCalendar struct {
	Name       string
	CalendarID string
}

// ParseCrewCalendars parses the "name=calendarId,name=calendarId" config form.
func ParseCrewCalendars(raw string) []CrewCalendar {
	var cals []CrewCalendar
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, id, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		cals = append(cals, CrewCalendar{Name: strings.TrimSpace(name), CalendarID: strings.TrimSpace(id)})
	}
	return cals
}

// Service wraps the Google Calendar API for mirroring and free/busy lookups.
type Service struct {
	api       *gcal.Service
	calendars []CrewCalendar
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService builds the calendar service. Credentials come from the ambient
// Google credentials file (service account).
func NewService(ctx context.Context, credentialsFile string, calendars []CrewCalendar, timeout time.Duration, logger *zap.Logger) (*Service, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	api, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Service{api: api, calendars: calendars, timeout: timeout, logger: logger}, nil
}

// Stores returns one schedule store per configured crew calendar.
func (s *Service) Stores() []*Store {
	stores := make([]*Store, 0, len(s.calendars))
	for _, cal := range s.calendars {
		stores = append(stores, &Store{svc: s, cal: cal})
	}
	return stores
}

// Mirror inserts the booking's time window as an event into every crew
// calendar. It returns the created event ids per store name; any failure is
// reported to the caller, who flags the booking calendar-unsynced instead of
// rolling it back.
func (s *Service) Mirror(ctx context.Context, booking *models.Booking) (map[string]string, error) {
	start, end, err := booking.Schedule.Slot.Window(booking.Schedule.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid booking window: %w", err)
	}

	event := &gcal.Event{
		Summary: fmt.Sprintf("%s - %s (%s)", booking.BookingID, booking.Customer.Name, booking.Service.Label),
		Description: fmt.Sprintf("Pickup: %s\nDelivery: %s\nPhone: %s\nTotal: $%.0f",
			booking.Route.PickupAddress, booking.Route.DeliveryAddress,
			booking.Customer.Phone, booking.Price.Total),
		Start: &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: models.BusinessTimezone},
		End:   &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: models.BusinessTimezone},
	}

	eventIDs := make(map[string]string, len(s.calendars))
	var firstErr error
	for _, cal := range s.calendars {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		created, err := s.api.Events.Insert(cal.CalendarID, event).Context(callCtx).Do()
		cancel()
		if err != nil {
			s.logger.Error("calendar mirror failed",
				zap.String("store", cal.Name), zap.String("bookingId", booking.BookingID), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("mirror to %s: %w", cal.Name, err)
			}
			continue
		}
		eventIDs[cal.Name] = created.Id
	}
	return eventIDs, firstErr
}

// Store adapts one crew calendar to the availability checker.
type Store struct {
	svc *Service
	cal CrewCalendar
}

// Name identifies the calendar in conflict reports.
func (st *Store) Name() string { return st.cal.Name }

// HasConflict queries free/busy for the slot window.
func (st *Store) HasConflict(ctx context.Context, date string, slot models.Slot) (bool, error) {
	start, end, err := slot.Window(date)
	if err != nil {
		return false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, st.svc.timeout)
	defer cancel()

	resp, err := st.svc.api.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: st.cal.CalendarID}},
	}).Context(callCtx).Do()
	if err != nil {
		return false, fmt.Errorf("freebusy query for %s: %w", st.cal.Name, err)
	}

	cal, ok := resp.Calendars[st.cal.CalendarID]
	if !ok {
		return false, fmt.Errorf("freebusy reply missing calendar %s", st.cal.CalendarID)
	}
	return len(cal.Busy) > 0, nil
}
