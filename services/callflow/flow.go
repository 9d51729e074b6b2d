package callflow

import (
	"movecall/models"
	"movecall/services/extractor"
)

// Menu/decision choice values. These never leave the engine; collected fields
// store the canonical values.
const (
	menuQuote       = "quote"
	menuBookingLink = "booking-link"
	menuAgent       = "agent"
	menuEscape      = "escape"

	decisionBook  = "book"
	decisionEmail = "email"
	decisionAgent = "agent"
)

// stageDef is one row of the transition table: how to prompt the stage,
// how to extract its answer, where the answer lands, and the happy-path
// successor. Stage-specific side effects live in the engine.
type stageDef struct {
	// Field is the collected field this stage writes; empty for branching
	// stages whose value only selects the next edge.
	Field string
	// Spec drives extraction for the caller's answer; nil for auto stages
	// processed without input.
	Spec *extractor.FieldSpec
	// Next maps the extracted value to the next stage.
	Next func(s *models.CallSession, value string) string
}

func nextAlways(stage string) func(*models.CallSession, string) string {
	return func(*models.CallSession, string) string { return stage }
}

func yesNoBranch(yes, no string) func(*models.CallSession, string) string {
	return func(_ *models.CallSession, value string) string {
		if value == "yes" {
			return yes
		}
		return no
	}
}

func choiceSpec(name string, choices ...extractor.Choice) *extractor.FieldSpec {
	return &extractor.FieldSpec{Name: name, Type: extractor.TypeChoice, Choices: choices}
}

func yesNoSpec(name string) *extractor.FieldSpec {
	return &extractor.FieldSpec{Name: name, Type: extractor.TypeYesNo}
}

func freeTextSpec(name string, t extractor.FieldType, description string) *extractor.FieldSpec {
	return &extractor.FieldSpec{Name: name, Type: t, Description: description}
}

var bedroomChoices = []extractor.Choice{
	{Value: "1", Digit: "1", Keywords: []string{"one", "studio", "single"}},
	{Value: "2", Digit: "2", Keywords: []string{"two"}},
	{Value: "3", Digit: "3", Keywords: []string{"three"}},
	{Value: "4", Digit: "4", Keywords: []string{"four"}},
	{Value: "5", Digit: "5", Keywords: []string{"five", "six", "seven"}},
}

var homeTypeChoices = []extractor.Choice{
	{Value: "house", Digit: "1", Keywords: []string{"house", "home", "townhouse", "townhome", "duplex"}},
	{Value: "apartment", Digit: "2", Keywords: []string{"apartment", "condo", "flat", "unit"}},
	{Value: "storage", Digit: "3", Keywords: []string{"storage", "office", "warehouse", "other"}},
}

// flow is the protocol's transition table. Terminal and auto stages
// (send-booking-link, calculate-distance, finalize-quote, booking-create,
// transfer) have no Spec; the engine performs their side effects directly.
var flow = map[string]stageDef{
	StageMainMenu: {
		Spec: choiceSpec("menu",
			extractor.Choice{Value: menuQuote, Digit: "1", Keywords: []string{"quote", "estimate", "price", "move", "moving"}},
			extractor.Choice{Value: menuBookingLink, Digit: "2", Keywords: []string{"link", "text", "online", "website"}},
			extractor.Choice{Value: menuAgent, Digit: "9", Keywords: []string{"agent", "person", "human", "representative", "somebody"}},
			extractor.Choice{Value: menuEscape, Digit: "0"},
		),
		Next: func(_ *models.CallSession, value string) string {
			switch value {
			case menuBookingLink:
				return StageSendBookingLink
			case menuAgent:
				return StageTransfer
			default:
				return StageServiceType
			}
		},
	},

	StageServiceType: {
		Field: models.FieldServiceType,
		Spec: choiceSpec("serviceType",
			extractor.Choice{Value: string(models.CategoryFullService), Digit: "1", Keywords: []string{"full", "everything", "pack and move"}},
			extractor.Choice{Value: string(models.CategoryLaborOnly), Digit: "2", Keywords: []string{"labor", "loading", "unloading", "muscle", "truck is"}},
		),
		Next: nextAlways(StagePickupAddress),
	},

	StagePickupAddress: {
		Field: models.FieldPickupAddress,
		Spec:  freeTextSpec("pickupAddress", extractor.TypeAddress, "The full pickup street address, including city and state"),
		Next:  nextAlways(StagePickupHomeType),
	},
	StagePickupHomeType: {
		Field: models.FieldPickupHomeType,
		Spec:  choiceSpec("pickupHomeType", homeTypeChoices...),
		Next:  nextAlways(StagePickupBedrooms),
	},
	StagePickupBedrooms: {
		Field: models.FieldPickupBedrooms,
		Spec:  choiceSpec("pickupBedrooms", bedroomChoices...),
		Next:  nextAlways(StagePickupStairs),
	},
	StagePickupStairs: {
		Field: models.FieldPickupStairs,
		Spec:  yesNoSpec("pickupStairs"),
		Next:  nextAlways(StageDeliveryAddress),
	},

	StageDeliveryAddress: {
		Field: models.FieldDeliveryAddress,
		Spec:  freeTextSpec("deliveryAddress", extractor.TypeAddress, "The full delivery street address, including city and state"),
		Next:  nextAlways(StageDeliveryHomeType),
	},
	StageDeliveryHomeType: {
		Field: models.FieldDeliveryHomeType,
		Spec:  choiceSpec("deliveryHomeType", homeTypeChoices...),
		Next:  nextAlways(StageDeliveryBedrooms),
	},
	StageDeliveryBedrooms: {
		Field: models.FieldDeliveryBedrooms,
		Spec:  choiceSpec("deliveryBedrooms", bedroomChoices...),
		Next:  nextAlways(StageDeliveryStairs),
	},
	StageDeliveryStairs: {
		Field: models.FieldDeliveryStairs,
		Spec:  yesNoSpec("deliveryStairs"),
		Next:  nextAlways(StageAppliances),
	},

	StageAppliances: {
		Field: models.FieldAppliances,
		Spec:  yesNoSpec("appliances"),
		Next:  yesNoBranch(StageApplianceDetails, StageHeavyItems),
	},
	StageApplianceDetails: {
		Field: models.FieldApplianceDetails,
		Spec:  freeTextSpec("applianceDetails", extractor.TypeText, "Which appliances need to be moved, e.g. washer, dryer, refrigerator"),
		Next:  nextAlways(StageHeavyItems),
	},
	StageHeavyItems: {
		Field: models.FieldHeavyItems,
		Spec:  yesNoSpec("heavyItems"),
		Next:  yesNoBranch(StageHeavyItemDetails, StagePackingServices),
	},
	StageHeavyItemDetails: {
		Field: models.FieldHeavyItemDetails,
		Spec:  freeTextSpec("heavyItemDetails", extractor.TypeText, "Which extra-heavy items need to be moved, e.g. piano, safe, pool table"),
		Next:  nextAlways(StagePackingServices),
	},
	StagePackingServices: {
		Field: models.FieldPacking,
		Spec:  yesNoSpec("packing"),
		Next:  nextAlways(StageCalculateDistance),
	},

	StageDecision: {
		Spec: choiceSpec("decision",
			extractor.Choice{Value: decisionBook, Digit: "1", Keywords: []string{"book", "yes", "schedule", "let's do it", "sounds good"}},
			extractor.Choice{Value: decisionEmail, Digit: "2", Keywords: []string{"email", "send", "writing", "think about"}},
			extractor.Choice{Value: decisionAgent, Digit: "9", Keywords: []string{"agent", "person", "human", "question"}},
		),
		Next: func(_ *models.CallSession, value string) string {
			switch value {
			case decisionEmail:
				return StageEmailQuote
			case decisionAgent:
				return StageTransfer
			default:
				return StageBookingStart
			}
		},
	},

	StageBookingStart: {
		Field: models.FieldCustomerName,
		Spec:  freeTextSpec("customerName", extractor.TypeName, "The caller's full name"),
		Next:  nextAlways(StageBookingContact),
	},
	StageBookingContact: {
		Field: models.FieldCustomerEmail,
		Spec:  freeTextSpec("customerEmail", extractor.TypeEmail, "The caller's email address"),
		Next:  nextAlways(StageBookingDate),
	},
	StageBookingDate: {
		Field: models.FieldBookingDate,
		Spec:  freeTextSpec("bookingDate", extractor.TypeDate, "The desired move date, returned as YYYY-MM-DD"),
		Next:  nextAlways(StageBookingSlot),
	},

	StageEmailQuote: {
		Field: models.FieldCustomerEmail,
		Spec:  freeTextSpec("customerEmail", extractor.TypeEmail, "The caller's email address"),
		// Terminal: the engine sends the quote email and ends the call.
		Next: nextAlways(StageEmailQuote),
	},
}
