// Package quote computes price breakdowns for a move. All functions are pure:
// the same inputs always produce the same breakdown.
package quote

import (
	"math"

	"movecall/models"
)

// Pricing constants per service category.
const (
	fullServiceBaseRate     = 192.50 // $/hr for a 2-mover crew at zero distance
	fullServiceDistanceRate = 0.75   // $/hr per mile
	fullServiceCrewRate     = 55.00  // $/hr per mover beyond the first two
	fullServiceChargeRate   = 0.14

	laborOnlyBaseRate     = 110.00
	laborOnlyDistanceRate = 1.00
	laborOnlyCrewRate     = 40.00
	laborOnlyChargeRate   = 0.08
	laborOnlyTravelRate   = 1.60 // $/mile, applied to the round trip
)

// HoursFor derives the estimated job duration from the distance tier. The
// caller never supplies this figure.
func HoursFor(category models.ServiceCategory, distanceMiles float64) int {
	if category == models.CategoryLaborOnly {
		switch {
		case distanceMiles <= 10:
			return 3
		case distanceMiles <= 25:
			return 4
		case distanceMiles <= 50:
			return 5
		default:
			return 6
		}
	}
	switch {
	case distanceMiles <= 10:
		return 3
	case distanceMiles <= 25:
		return 4
	case distanceMiles <= 50:
		return 6
	default:
		return 8
	}
}

// CrewSizeFor derives the crew size from the larger home on the route.
func CrewSizeFor(pickupBedrooms, deliveryBedrooms int) int {
	bedrooms := pickupBedrooms
	if deliveryBedrooms > bedrooms {
		bedrooms = deliveryBedrooms
	}
	switch {
	case bedrooms <= 2:
		return 2
	case bedrooms == 3:
		return 3
	default:
		return 4
	}
}

// Calculate produces the full price breakdown for the given job parameters.
// The breakdown retains full precision; presentation rounds to whole dollars.
func Calculate(category models.ServiceCategory, distanceMiles float64, crewSize, hours int) models.QuoteBreakdown {
	base, distanceRate, crewRate, chargeRate := fullServiceBaseRate, fullServiceDistanceRate, fullServiceCrewRate, fullServiceChargeRate
	if category == models.CategoryLaborOnly {
		base, distanceRate, crewRate, chargeRate = laborOnlyBaseRate, laborOnlyDistanceRate, laborOnlyCrewRate, laborOnlyChargeRate
	}

	hourlyRate := base + distanceMiles*distanceRate + float64(crewSize-2)*crewRate
	subtotal := hourlyRate * float64(hours)

	var travelFee float64
	if category == models.CategoryLaborOnly {
		travelFee = distanceMiles * 2 * laborOnlyTravelRate
	}

	serviceCharge := subtotal * chargeRate

	return models.QuoteBreakdown{
		Category:      category,
		CrewSize:      crewSize,
		Hours:         hours,
		DistanceMiles: distanceMiles,
		HourlyRate:    hourlyRate,
		Subtotal:      subtotal,
		TravelFee:     travelFee,
		ServiceCharge: serviceCharge,
		Total:         subtotal + travelFee + serviceCharge,
	}
}

// RoundedTotal is the caller-facing whole-dollar total.
func RoundedTotal(b models.QuoteBreakdown) int {
	return int(math.Round(b.Total))
}

// RoundedRate is the caller-facing whole-dollar hourly rate.
func RoundedRate(b models.QuoteBreakdown) int {
	return int(math.Round(b.HourlyRate))
}
