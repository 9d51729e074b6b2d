package availability

import (
	"context"

	bookingRepo "movecall/database/repository/booking"
	"movecall/models"
)

// BookingLedgerStore exposes the persistent booking store as a schedule store:
// a confirmed booking for (date, slot) is a conflict.
type BookingLedgerStore struct {
	Repo bookingRepo.BookingRepository
}

func (s *BookingLedgerStore) Name() string { return "bookings" }

func (s *BookingLedgerStore) HasConflict(ctx context.Context, date string, slot models.Slot) (bool, error) {
	return s.Repo.HasConfirmed(ctx, date, slot)
}
