package models

import "time"

// Slot is one of the two fixed daily scheduling windows.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
)

// BusinessTimezone is the single civil timezone used for all date/time arithmetic.
const BusinessTimezone = "America/Chicago"

// BookingHorizonDays is how far ahead a caller may book.
const BookingHorizonDays = 90

// StartHour returns the wall-clock start hour of the slot window.
func (s Slot) StartHour() int {
	if s == SlotAfternoon {
		return 13
	}
	return 8
}

// DisplayWindow is the arrival window read out to callers.
func (s Slot) DisplayWindow() string {
	if s == SlotAfternoon {
		return "1 to 2 PM"
	}
	return "8 to 9 AM"
}

// Valid reports whether s is one of the two offered slots.
func (s Slot) Valid() bool {
	return s == SlotMorning || s == SlotAfternoon
}

// Window returns the slot's start time and the end of its arrival window on the
// given date, in the business timezone.
func (s Slot) Window(date string) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(BusinessTimezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := d.Add(time.Duration(s.StartHour()) * time.Hour)
	return start, start.Add(time.Hour), nil
}

// SlotStatus is the availability verdict for one (date, slot) pair.
type SlotStatus struct {
	Slot          Slot   `json:"slot"`
	Available     bool   `json:"available"`
	ConflictStore string `json:"conflictStore,omitempty"`
}
