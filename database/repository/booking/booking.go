package bookingRepo

import (
	"context"
	"errors"

	"movecall/models"
)

// ErrSlotTaken is returned when the unique (date, slot, status) index rejects
// an insert: another caller confirmed the same window first.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	// Create persists a new booking. Returns ErrSlotTaken when a confirmed
	// booking already holds the same (date, slot).
	Create(ctx context.Context, booking *models.Booking) error
	// GetByRef retrieves a booking by its human-shareable reference.
	GetByRef(ctx context.Context, bookingID string) (*models.Booking, error)
	// HasConfirmed reports whether a confirmed booking exists for (date, slot).
	HasConfirmed(ctx context.Context, date string, slot models.Slot) (bool, error)
	// Update replaces a booking record (calendar flags, status changes).
	Update(ctx context.Context, booking *models.Booking) error
}
