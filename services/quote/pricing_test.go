package quote

import (
	"math"
	"testing"

	"movecall/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestCalculate_FullService(t *testing.T) {
	tests := []struct {
		name       string
		distance   float64
		crew       int
		hours      int
		hourlyRate float64
		subtotal   float64
		charge     float64
		total      float64
	}{
		{"short haul two movers", 10, 2, 4, 200.00, 800.00, 112.00, 912.00},
		{"mid haul two movers", 25, 2, 4, 211.25, 845.00, 118.30, 963.30},
		{"long haul three movers", 50, 3, 6, 285.00, 1710.00, 239.40, 1949.40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Calculate(models.CategoryFullService, tt.distance, tt.crew, tt.hours)
			if !almostEqual(b.HourlyRate, tt.hourlyRate) {
				t.Errorf("HourlyRate = %.2f, want %.2f", b.HourlyRate, tt.hourlyRate)
			}
			if !almostEqual(b.Subtotal, tt.subtotal) {
				t.Errorf("Subtotal = %.2f, want %.2f", b.Subtotal, tt.subtotal)
			}
			if !almostEqual(b.ServiceCharge, tt.charge) {
				t.Errorf("ServiceCharge = %.2f, want %.2f", b.ServiceCharge, tt.charge)
			}
			if b.TravelFee != 0 {
				t.Errorf("TravelFee = %.2f, want 0 for full service", b.TravelFee)
			}
			if !almostEqual(b.Total, tt.total) {
				t.Errorf("Total = %.2f, want %.2f", b.Total, tt.total)
			}
		})
	}
}

func TestRoundedPresentation(t *testing.T) {
	// Labor-only at 10 miles keeps fractional cents internally (total 420.80)
	// but presents whole dollars, rounding half away from zero.
	b := Calculate(models.CategoryLaborOnly, 10, 2, 3)
	if got := RoundedTotal(b); got != 421 {
		t.Errorf("RoundedTotal = %d, want 421", got)
	}
	if got := RoundedRate(b); got != 120 {
		t.Errorf("RoundedRate = %d, want 120", got)
	}

	half := models.QuoteBreakdown{Total: 100.5, HourlyRate: 99.5}
	if got := RoundedTotal(half); got != 101 {
		t.Errorf("RoundedTotal(100.5) = %d, want 101", got)
	}
	if got := RoundedRate(half); got != 100 {
		t.Errorf("RoundedRate(99.5) = %d, want 100", got)
	}
}

func TestCalculate_LaborOnly(t *testing.T) {
	b := Calculate(models.CategoryLaborOnly, 10, 2, 3)
	if !almostEqual(b.HourlyRate, 120.00) {
		t.Errorf("HourlyRate = %.2f, want 120.00", b.HourlyRate)
	}
	if !almostEqual(b.Subtotal, 360.00) {
		t.Errorf("Subtotal = %.2f, want 360.00", b.Subtotal)
	}
	if !almostEqual(b.TravelFee, 32.00) {
		t.Errorf("TravelFee = %.2f, want 32.00", b.TravelFee)
	}
	if !almostEqual(b.ServiceCharge, 28.80) {
		t.Errorf("ServiceCharge = %.2f, want 28.80", b.ServiceCharge)
	}
	if !almostEqual(b.Total, 420.80) {
		t.Errorf("Total = %.2f, want 420.80", b.Total)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	first := Calculate(models.CategoryFullService, 25, 2, 4)
	for i := 0; i < 10; i++ {
		if got := Calculate(models.CategoryFullService, 25, 2, 4); got != first {
			t.Fatalf("Calculate not idempotent: %+v vs %+v", got, first)
		}
	}
}

func TestCalculate_CrewMonotonicity(t *testing.T) {
	for _, category := range []models.ServiceCategory{models.CategoryFullService, models.CategoryLaborOnly} {
		prev := Calculate(category, 20, 2, 4).Total
		for crew := 3; crew <= 4; crew++ {
			total := Calculate(category, 20, crew, 4).Total
			if total <= prev {
				t.Errorf("%s: total %.2f for crew %d not greater than %.2f for crew %d",
					category, total, crew, prev, crew-1)
			}
			prev = total
		}
	}
}

func TestHoursFor(t *testing.T) {
	tests := []struct {
		category models.ServiceCategory
		distance float64
		want     int
	}{
		{models.CategoryFullService, 5, 3},
		{models.CategoryFullService, 10, 3},
		{models.CategoryFullService, 25, 4},
		{models.CategoryFullService, 50, 6},
		{models.CategoryFullService, 120, 8},
		{models.CategoryLaborOnly, 10, 3},
		{models.CategoryLaborOnly, 25, 4},
		{models.CategoryLaborOnly, 50, 5},
		{models.CategoryLaborOnly, 120, 6},
	}
	for _, tt := range tests {
		if got := HoursFor(tt.category, tt.distance); got != tt.want {
			t.Errorf("HoursFor(%s, %.0f) = %d, want %d", tt.category, tt.distance, got, tt.want)
		}
	}
}

func TestCrewSizeFor(t *testing.T) {
	tests := []struct {
		pickup, delivery, want int
	}{
		{1, 1, 2},
		{2, 1, 2},
		{3, 2, 3},
		{2, 3, 3},
		{4, 1, 4},
		{5, 5, 4},
	}
	for _, tt := range tests {
		if got := CrewSizeFor(tt.pickup, tt.delivery); got != tt.want {
			t.Errorf("CrewSizeFor(%d, %d) = %d, want %d", tt.pickup, tt.delivery, got, tt.want)
		}
	}
}
