package callflow

import (
	"fmt"
	"strings"
	"time"

	"movecall/models"
	"movecall/services/quote"
)

// Caller-facing script. Prompts are written for speech synthesis: short
// sentences, digits offered alongside spoken choices.
const (
	promptGreeting = "Thanks for calling Summit Movers! I'm the automated booking assistant, and I can get you a moving quote in about two minutes."

	promptMainMenu = "Press 1 or say quote to get a moving quote. Press 2 and I'll text you a link to book online. Or press 9 to talk to a team member."

	promptServiceType = "First, what kind of help do you need? Press 1 or say full service for packing, loading, and transport. Press 2 or say labor only if you have your own truck and just need muscle."

	promptPickupAddress  = "Got it. What's the full pickup address, including the city?"
	promptPickupHomeType = "Is the pickup a house, an apartment, or a storage unit? You can also press 1 for house, 2 for apartment, or 3 for storage."
	promptPickupBedrooms = "How many bedrooms at the pickup? Say a number or press it on your keypad."
	promptPickupStairs   = "Are there stairs at the pickup location? Say yes or no."

	promptDeliveryAddress  = "And what's the full delivery address, including the city?"
	promptDeliveryHomeType = "Is the delivery a house, an apartment, or a storage unit?"
	promptDeliveryBedrooms = "How many bedrooms at the delivery?"
	promptDeliveryStairs   = "Any stairs at the delivery location?"

	promptAppliances       = "Will we be moving any large appliances, like a washer, dryer, or refrigerator? Say yes or no."
	promptApplianceDetails = "Which appliances should we plan for?"
	promptHeavyItems       = "Anything extra heavy, like a piano, a safe, or a pool table? Say yes or no."
	promptHeavyItemDetails = "What heavy items should we plan for?"
	promptPackingServices  = "Last question. Would you like us to handle packing as well? Say yes or no."

	promptCrunching = "Perfect, that's everything I need. Give me just a second to run the numbers."

	promptDecision = "Press 1 to book your move, press 2 and I'll email you the quote, or press 9 for a team member."

	promptBookingStart   = "Wonderful! Let me grab a few details. What's your full name?"
	promptBookingContact = "Thanks! And what's the best email address for your confirmation?"
	promptBookingDate    = "What date would you like to move? You can say something like next Friday, or a date like October 10th."

	promptEmailQuote = "Happy to. What email address should I send the quote to?"

	promptClarify     = "Sorry, I didn't catch that."
	promptTransfer    = "Let me connect you with a team member who can help. One moment please."
	promptLinkSent    = "Done! I just texted you our booking link. Thanks for calling Summit Movers, and talk soon!"
	promptGoodbye     = "Thanks for calling Summit Movers. Have a great day!"
	promptLostCall    = "I'm sorry, I seem to have lost track of our conversation. Let me connect you with a team member."
	promptDateRange   = "I can book moves from tomorrow up to about three months out. What date works for you?"
	promptFullyBooked = "I'm sorry, we're fully booked that day."
	promptSlotTaken   = "I'm so sorry, that window was just taken by another customer. Is there another date that could work?"
	promptQuoteSent   = "All set! Your quote is on its way to your inbox. Thanks for calling Summit Movers, and call us back any time to book."
)

// stagePrompts maps each gathering stage to its scripted question.
var stagePrompts = map[string]string{
	StageMainMenu:         promptMainMenu,
	StageServiceType:      promptServiceType,
	StagePickupAddress:    promptPickupAddress,
	StagePickupHomeType:   promptPickupHomeType,
	StagePickupBedrooms:   promptPickupBedrooms,
	StagePickupStairs:     promptPickupStairs,
	StageDeliveryAddress:  promptDeliveryAddress,
	StageDeliveryHomeType: promptDeliveryHomeType,
	StageDeliveryBedrooms: promptDeliveryBedrooms,
	StageDeliveryStairs:   promptDeliveryStairs,
	StageAppliances:       promptAppliances,
	StageApplianceDetails: promptApplianceDetails,
	StageHeavyItems:       promptHeavyItems,
	StageHeavyItemDetails: promptHeavyItemDetails,
	StagePackingServices:  promptPackingServices,
	StageDecision:         promptDecision,
	StageBookingStart:     promptBookingStart,
	StageBookingContact:   promptBookingContact,
	StageBookingDate:      promptBookingDate,
	StageEmailQuote:       promptEmailQuote,
}

// quoteAnnouncement reads the computed breakdown back to the caller, rounded
// to whole dollars.
func quoteAnnouncement(q *models.QuoteBreakdown) string {
	return fmt.Sprintf(
		"Here's your quote. For a %s with %d movers, estimated at %d hours, your rate is %d dollars per hour, and your estimated total comes to %d dollars. Would you like to book it? Press 1 to book, press 2 and I'll email you the quote, or press 9 for a team member.",
		q.Category.Label(), q.CrewSize, q.Hours, quote.RoundedRate(*q), quote.RoundedTotal(*q))
}

// slotChoicePrompt offers the open windows on the chosen date.
func slotChoicePrompt(date string, offered []models.Slot) string {
	if len(offered) == 1 {
		return fmt.Sprintf("On %s we have the %s window, arriving %s. Does that work? Say yes or no.",
			spokenDate(date), offered[0], offered[0].DisplayWindow())
	}
	return fmt.Sprintf("Great news, %s is open. Would you like the morning window, arriving %s, or the afternoon window, arriving %s? You can also press 1 for morning or 2 for afternoon.",
		spokenDate(date), models.SlotMorning.DisplayWindow(), models.SlotAfternoon.DisplayWindow())
}

// bookingConfirmation is the final read-back before hanging up.
func bookingConfirmation(b *models.Booking) string {
	return fmt.Sprintf(
		"You're all booked! Your confirmation number is %s. We'll see you on %s, arriving between %s. You'll get an email and a text with everything shortly. Thanks for choosing Summit Movers!",
		spokenRef(b.BookingID), spokenDate(b.Schedule.Date), b.Schedule.Slot.DisplayWindow())
}

// spokenDate renders "2026-09-15" as "Tuesday, September 15" for speech.
// Unparseable dates are read back as-is.
func spokenDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2")
}

// spokenRef spaces out a booking reference so synthesis reads it character by
// character: "MV-7KQ2NX" → "M V, 7 K Q 2 N X".
func spokenRef(ref string) string {
	parts := strings.SplitN(ref, "-", 2)
	spell := func(s string) string {
		chars := make([]string, 0, len(s))
		for _, r := range s {
			chars = append(chars, string(r))
		}
		return strings.Join(chars, " ")
	}
	if len(parts) == 2 {
		return spell(parts[0]) + ", " + spell(parts[1])
	}
	return spell(ref)
}
