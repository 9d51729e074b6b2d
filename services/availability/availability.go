// Package availability answers whether a (date, slot) window can take another
// job. The business runs more than one independent schedule; a slot is offered
// only when every store is free.
package availability

import (
	"context"
	"fmt"

	"movecall/models"

	"go.uber.org/zap"
)

// ScheduleStore is one independent schedule consulted during availability
// checks (a crew's booking ledger, an external calendar, ...).
type ScheduleStore interface {
	Name() string
	// HasConflict reports whether the store already holds an entry for the
	// given (date, slot).
	HasConflict(ctx context.Context, date string, slot models.Slot) (bool, error)
}

// Checker evaluates slot availability across all schedule stores.
type Checker struct {
	stores []ScheduleStore
	logger *zap.Logger
}

// NewChecker builds a Checker over the given stores.
func NewChecker(logger *zap.Logger, stores ...ScheduleStore) *Checker {
	return &Checker{stores: stores, logger: logger}
}

// CheckSlot reports whether the slot is free in every store, short-circuiting
// on the first conflict and naming the store that held it. A store error makes
// the slot unavailable rather than risking a double booking.
func (c *Checker) CheckSlot(ctx context.Context, date string, slot models.Slot) (models.SlotStatus, error) {
	if !slot.Valid() {
		return models.SlotStatus{}, fmt.Errorf("unknown slot %q", slot)
	}
	for _, store := range c.stores {
		conflict, err := store.HasConflict(ctx, date, slot)
		if err != nil {
			c.logger.Warn("schedule store check failed, treating slot as unavailable",
				zap.String("store", store.Name()), zap.String("date", date),
				zap.String("slot", string(slot)), zap.Error(err))
			return models.SlotStatus{Slot: slot, Available: false, ConflictStore: store.Name()}, nil
		}
		if conflict {
			return models.SlotStatus{Slot: slot, Available: false, ConflictStore: store.Name()}, nil
		}
	}
	return models.SlotStatus{Slot: slot, Available: true}, nil
}

// AvailableSlots returns both slots' status for a date in one call, for
// presenting the "morning or afternoon" choice.
func (c *Checker) AvailableSlots(ctx context.Context, date string) ([]models.SlotStatus, error) {
	statuses := make([]models.SlotStatus, 0, 2)
	for _, slot := range []models.Slot{models.SlotMorning, models.SlotAfternoon} {
		status, err := c.CheckSlot(ctx, date, slot)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
