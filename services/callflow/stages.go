// Package callflow drives the scripted phone dialogue: a finite-state machine
// over named stages, one transition per inbound caller event. The transition
// table makes the protocol auditable without a live telephony channel; the
// engine adds the stage-specific side effects (distance lookup, quoting,
// booking).
package callflow

// Stage names, in protocol order.
const (
	StageGreeting          = "greeting"
	StageMainMenu          = "main-menu"
	StageSendBookingLink   = "send-booking-link"
	StageServiceType       = "service-type"
	StagePickupAddress     = "pickup-address"
	StagePickupHomeType    = "pickup-home-type"
	StagePickupBedrooms    = "pickup-bedrooms"
	StagePickupStairs      = "pickup-stairs"
	StageDeliveryAddress   = "delivery-address"
	StageDeliveryHomeType  = "delivery-home-type"
	StageDeliveryBedrooms  = "delivery-bedrooms"
	StageDeliveryStairs    = "delivery-stairs"
	StageAppliances        = "appliances"
	StageApplianceDetails  = "appliances-details"
	StageHeavyItems        = "heavy-items"
	StageHeavyItemDetails  = "heavy-items-details"
	StagePackingServices   = "packing-services"
	StageCalculateDistance = "calculate-distance"
	StageFinalizeQuote     = "finalize-quote"
	StageDecision          = "decision"
	StageBookingStart      = "booking-start"
	StageBookingContact    = "booking-contact"
	StageBookingDate       = "booking-date"
	StageBookingSlot       = "booking-slot"
	StageBookingCreate     = "booking-create"
	StageEmailQuote        = "email-quote"
	StageTransfer          = "transfer"
)

// stageOrder is the full protocol order. History must be a subsequence of it,
// except for the explicit restart edges back to booking-date: declining the
// only offered window, or losing the slot at booking-create.
var stageOrder = []string{
	StageGreeting,
	StageMainMenu,
	StageSendBookingLink,
	StageServiceType,
	StagePickupAddress,
	StagePickupHomeType,
	StagePickupBedrooms,
	StagePickupStairs,
	StageDeliveryAddress,
	StageDeliveryHomeType,
	StageDeliveryBedrooms,
	StageDeliveryStairs,
	StageAppliances,
	StageApplianceDetails,
	StageHeavyItems,
	StageHeavyItemDetails,
	StagePackingServices,
	StageCalculateDistance,
	StageFinalizeQuote,
	StageDecision,
	StageBookingStart,
	StageBookingContact,
	StageBookingDate,
	StageBookingSlot,
	StageBookingCreate,
	StageEmailQuote,
	StageTransfer,
}

var stageIndex = func() map[string]int {
	m := make(map[string]int, len(stageOrder))
	for i, s := range stageOrder {
		m[s] = i
	}
	return m
}()

// IsTerminal reports whether the stage ends the call once its processing
// completes.
func IsTerminal(stage string) bool {
	switch stage {
	case StageSendBookingLink, StageBookingCreate, StageEmailQuote, StageTransfer:
		return true
	}
	return false
}
