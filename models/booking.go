package models

import "time"

// ServiceCategory identifies the kind of move being quoted.
type ServiceCategory string

const (
	CategoryFullService ServiceCategory = "full-service-moving"
	CategoryLaborOnly   ServiceCategory = "labor-only"
)

// Label returns the caller-facing name of the category.
func (c ServiceCategory) Label() string {
	if c == CategoryLaborOnly {
		return "Labor Only"
	}
	return "Full Service Moving"
}

// QuoteBreakdown is the itemized pricing result. Internal fields keep full
// precision; presentation rounds to whole currency units.
type QuoteBreakdown struct {
	Category      ServiceCategory `bson:"category" json:"category"`
	CrewSize      int             `bson:"crew_size" json:"crewSize"`
	Hours         int             `bson:"hours" json:"hours"`
	DistanceMiles float64         `bson:"distance_miles" json:"distanceMiles"`
	HourlyRate    float64         `bson:"hourly_rate" json:"hourlyRate"`
	Subtotal      float64         `bson:"subtotal" json:"subtotal"`
	TravelFee     float64         `bson:"travel_fee" json:"travelFee"`
	ServiceCharge float64         `bson:"service_charge" json:"serviceCharge"`
	Total         float64         `bson:"total" json:"total"`
}

// Customer holds the contact details collected during the booking stages.
type Customer struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

// Schedule is the confirmed (date, slot) pair of a booking.
type Schedule struct {
	Date string `bson:"date" json:"date"` // "YYYY-MM-DD" in the business timezone
	Slot Slot   `bson:"slot" json:"slot"`
}

// ServiceDescriptor describes what crew is being dispatched.
type ServiceDescriptor struct {
	Category ServiceCategory `bson:"category" json:"category"`
	CrewSize int             `bson:"crew_size" json:"crewSize"`
	Label    string          `bson:"label" json:"label"` // e.g. "Full Service Moving - 3 Movers"
}

// Route is the pickup/delivery pair with computed travel figures.
type Route struct {
	PickupAddress    string  `bson:"pickup_address" json:"pickupAddress"`
	DeliveryAddress  string  `bson:"delivery_address" json:"deliveryAddress"`
	DistanceMiles    float64 `bson:"distance_miles" json:"distanceMiles"`
	DriveTimeMinutes int     `bson:"drive_time_minutes" json:"driveTimeMinutes"`
}

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a confirmed, durable reservation. It is only created after the
// availability checker reports the target (date, slot) free, and the insert
// itself is guarded by a unique index on (date, slot, status).
type Booking struct {
	BookingID         string            `bson:"booking_id" json:"bookingId"` // human-shareable, e.g. "MV-7KQ2NX"
	Customer          Customer          `bson:"customer" json:"customer"`
	Schedule          Schedule          `bson:"schedule" json:"schedule"`
	Service           ServiceDescriptor `bson:"service" json:"service"`
	Route             Route             `bson:"route" json:"route"`
	Price             QuoteBreakdown    `bson:"price" json:"price"`
	Status            string            `bson:"status" json:"status"`
	Source            string            `bson:"source" json:"source"` // channel tag, "voice" for this flow
	OriginatingCallID string            `bson:"originating_call_id" json:"originatingCallId"`
	CalendarSynced    bool              `bson:"calendar_synced" json:"calendarSynced"`
	CalendarEventIDs  map[string]string `bson:"calendar_event_ids,omitempty" json:"calendarEventIds,omitempty"`
	CreatedAt         time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updated_at" json:"updatedAt"`
}
