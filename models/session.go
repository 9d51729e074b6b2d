package models

import "time"

// Well-known collected field names. Each field is written only by the stage
// that collects it.
const (
	FieldServiceType      = "serviceType"
	FieldPickupAddress    = "pickupAddress"
	FieldPickupHomeType   = "pickupHomeType"
	FieldPickupBedrooms   = "pickupBedrooms"
	FieldPickupStairs     = "pickupStairs"
	FieldDeliveryAddress  = "deliveryAddress"
	FieldDeliveryHomeType = "deliveryHomeType"
	FieldDeliveryBedrooms = "deliveryBedrooms"
	FieldDeliveryStairs   = "deliveryStairs"
	FieldAppliances       = "appliances"
	FieldApplianceDetails = "applianceDetails"
	FieldHeavyItems       = "heavyItems"
	FieldHeavyItemDetails = "heavyItemDetails"
	FieldPacking          = "packing"
	FieldDistanceMiles    = "distanceMiles"
	FieldDriveTimeMinutes = "driveTimeMinutes"
	FieldCustomerName     = "customerName"
	FieldCustomerEmail    = "customerEmail"
	FieldBookingDate      = "bookingDate"
	FieldBookingSlot      = "bookingSlot"
	// FieldOfferedSlots records which windows were offered for the chosen
	// date, so the slot answer can be validated against the actual offer.
	FieldOfferedSlots = "offeredSlots"
)

// Turn is one audited round trip: what the caller said, what was extracted,
// and where the protocol moved. Appended once per inbound event, never mutated.
type Turn struct {
	StageBefore string    `bson:"stage_before" json:"stageBefore"`
	StageAfter  string    `bson:"stage_after" json:"stageAfter"`
	Input       string    `bson:"input" json:"input"`
	Digits      string    `bson:"digits,omitempty" json:"digits,omitempty"`
	Extracted   string    `bson:"extracted,omitempty" json:"extracted,omitempty"`
	Degraded    bool      `bson:"degraded,omitempty" json:"degraded,omitempty"`
	Prompt      string    `bson:"prompt" json:"prompt"`
	At          time.Time `bson:"at" json:"at"`
}

// CallSession is the live state of one in-progress phone interaction.
// A session is mutated exactly once per inbound event; the telephony gateway
// never delivers the next turn before the current one's response is produced.
type CallSession struct {
	CallID        string            `json:"callId"`
	Stage         string            `json:"stage"`
	CallerContact string            `json:"callerContact"` // immutable after creation
	Collected     map[string]string `json:"collected"`
	Quote         *QuoteBreakdown   `json:"quote,omitempty"`
	Attempts      map[string]int    `json:"attempts"`
	History       []Turn            `json:"history"`
	StartedAt     time.Time         `json:"startedAt"`
	LastActivity  time.Time         `json:"lastActivityAt"`
}

// Field returns a collected field value, empty if unset.
func (s *CallSession) Field(name string) string {
	return s.Collected[name]
}

// SetField writes a collected field. Values are only overwritten, never removed.
func (s *CallSession) SetField(name, value string) {
	if s.Collected == nil {
		s.Collected = make(map[string]string)
	}
	s.Collected[name] = value
}

// ClearQuote drops a stale quote. Required before recomputation when crew size
// or either address changes.
func (s *CallSession) ClearQuote() {
	s.Quote = nil
}

// BumpAttempt increments a named recoverable-failure counter and returns the
// new count.
func (s *CallSession) BumpAttempt(class string) int {
	if s.Attempts == nil {
		s.Attempts = make(map[string]int)
	}
	s.Attempts[class]++
	return s.Attempts[class]
}

// CallRecord is the durable trace of a finished call, written when the session
// is destroyed.
type CallRecord struct {
	CallID        string    `bson:"call_id" json:"callId"`
	CallerContact string    `bson:"caller_contact" json:"callerContact"`
	FinalStage    string    `bson:"final_stage" json:"finalStage"`
	Outcome       string    `bson:"outcome" json:"outcome"` // booked, quoted, transferred, abandoned
	BookingID     string    `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	History       []Turn    `bson:"history" json:"history"`
	StartedAt     time.Time `bson:"started_at" json:"startedAt"`
	EndedAt       time.Time `bson:"ended_at" json:"endedAt"`
}

// Call outcomes recorded on CallRecord.
const (
	OutcomeBooked      = "booked"
	OutcomeQuoted      = "quoted"
	OutcomeLinkSent    = "link-sent"
	OutcomeTransferred = "transferred"
	OutcomeAbandoned   = "abandoned"
)
