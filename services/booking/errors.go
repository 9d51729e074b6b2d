package booking

import "errors"

var (
	// ErrSlotNoLongerAvailable means the target (date, slot) was taken between
	// the offer and the confirmation. The caller is offered another slot.
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")

	// ErrPersistence means the booking could not be durably recorded. Always
	// escalated to a human transfer, never silently retried: a duplicate
	// booking is worse than a delayed one.
	ErrPersistence = errors.New("failed to persist booking")

	// ErrIncompleteSession means the session is missing fields required to
	// assemble a booking.
	ErrIncompleteSession = errors.New("session is missing required booking fields")
)
