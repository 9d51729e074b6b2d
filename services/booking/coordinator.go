// Package booking turns an accepted quote plus a chosen slot into a durable,
// notified reservation. The persistent write is the single point that defines
// "booking exists"; calendar mirroring and notifications are best-effort and
// never roll the booking back.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	bookingRepo "movecall/database/repository/booking"
	"movecall/models"
	"movecall/utils"

	"go.uber.org/zap"
)

// SlotChecker is the availability re-check consulted immediately before the
// booking write.
type SlotChecker interface {
	CheckSlot(ctx context.Context, date string, slot models.Slot) (models.SlotStatus, error)
}

// CalendarMirror copies a confirmed booking into the external crew calendars.
type CalendarMirror interface {
	Mirror(ctx context.Context, booking *models.Booking) (map[string]string, error)
}

// Notifier fans confirmation messages out to the customer's channels.
// Implementations must never return an error that aborts a call turn.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *models.Booking)
}

// Coordinator orchestrates the booking sequence.
type Coordinator struct {
	repo     bookingRepo.BookingRepository
	checker  SlotChecker
	calendar CalendarMirror
	notifier Notifier
	logger   *zap.Logger
}

// NewCoordinator builds a Coordinator. calendar and notifier may be nil; the
// corresponding best-effort step is then skipped.
func NewCoordinator(repo bookingRepo.BookingRepository, checker SlotChecker, calendar CalendarMirror, notifier Notifier, logger *zap.Logger) *Coordinator {
	return &Coordinator{repo: repo, checker: checker, calendar: calendar, notifier: notifier, logger: logger}
}

// CreateBooking re-checks the slot, persists the booking, then mirrors it to
// the crew calendars and dispatches confirmations. Only the re-check and the
// persistent write can fail the operation; everything after the write is
// logged and reported but never surfaced to the caller.
func (c *Coordinator) CreateBooking(ctx context.Context, session *models.CallSession) (*models.Booking, error) {
	b, err := assembleBooking(session)
	if err != nil {
		return nil, err
	}

	status, err := c.checker.CheckSlot(ctx, b.Schedule.Date, b.Schedule.Slot)
	if err != nil {
		return nil, fmt.Errorf("availability re-check: %w", err)
	}
	if !status.Available {
		c.logger.Info("slot taken between offer and confirmation",
			zap.String("callId", session.CallID),
			zap.String("date", b.Schedule.Date),
			zap.String("slot", string(b.Schedule.Slot)),
			zap.String("conflictStore", status.ConflictStore))
		return nil, ErrSlotNoLongerAvailable
	}

	ref, err := utils.NewBookingRef()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	b.BookingID = ref

	if err := c.repo.Create(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			// The unique index closed the check-then-write race.
			return nil, ErrSlotNoLongerAvailable
		}
		c.logger.Error("booking write failed", zap.String("callId", session.CallID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	c.mirrorToCalendars(ctx, b)

	if c.notifier != nil {
		c.notifier.BookingConfirmed(ctx, b)
	}

	c.logger.Info("booking confirmed",
		zap.String("bookingId", b.BookingID),
		zap.String("date", b.Schedule.Date),
		zap.String("slot", string(b.Schedule.Slot)),
		zap.Float64("total", b.Price.Total))
	return b, nil
}

func (c *Coordinator) mirrorToCalendars(ctx context.Context, b *models.Booking) {
	if c.calendar == nil {
		return
	}
	eventIDs, err := c.calendar.Mirror(ctx, b)
	b.CalendarEventIDs = eventIDs
	if err != nil {
		// Booking stays valid; operators reconcile unsynced bookings later.
		c.logger.Error("calendar mirror failed, booking flagged unsynced",
			zap.String("bookingId", b.BookingID), zap.Error(err))
		b.CalendarSynced = false
	} else {
		b.CalendarSynced = true
	}
	if err := c.repo.Update(ctx, b); err != nil {
		c.logger.Error("failed to record calendar sync state",
			zap.String("bookingId", b.BookingID), zap.Error(err))
	}
}

// assembleBooking maps the session's collected fields into a Booking record.
func assembleBooking(session *models.CallSession) (*models.Booking, error) {
	if session.Quote == nil {
		return nil, fmt.Errorf("%w: no quote", ErrIncompleteSession)
	}
	required := []string{
		models.FieldCustomerName, models.FieldCustomerEmail,
		models.FieldPickupAddress, models.FieldDeliveryAddress,
		models.FieldBookingDate, models.FieldBookingSlot,
	}
	for _, f := range required {
		if session.Field(f) == "" {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteSession, f)
		}
	}

	slot := models.Slot(session.Field(models.FieldBookingSlot))
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: invalid slot %q", ErrIncompleteSession, slot)
	}

	quote := *session.Quote
	distance, _ := strconv.ParseFloat(session.Field(models.FieldDistanceMiles), 64)
	driveTime, _ := strconv.Atoi(session.Field(models.FieldDriveTimeMinutes))

	now := time.Now()
	return &models.Booking{
		Customer: models.Customer{
			Name:  session.Field(models.FieldCustomerName),
			Phone: session.CallerContact,
			Email: session.Field(models.FieldCustomerEmail),
		},
		Schedule: models.Schedule{
			Date: session.Field(models.FieldBookingDate),
			Slot: slot,
		},
		Service: models.ServiceDescriptor{
			Category: quote.Category,
			CrewSize: quote.CrewSize,
			Label:    fmt.Sprintf("%s - %d Movers", quote.Category.Label(), quote.CrewSize),
		},
		Route: models.Route{
			PickupAddress:    session.Field(models.FieldPickupAddress),
			DeliveryAddress:  session.Field(models.FieldDeliveryAddress),
			DistanceMiles:    distance,
			DriveTimeMinutes: driveTime,
		},
		Price:             quote,
		Status:            models.BookingStatusConfirmed,
		Source:            "voice",
		OriginatingCallID: session.CallID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}
