package usecase

import (
	"math"
	"time"
)

// Quote is the price for a rental date range.
type Quote struct {
	DurationDays int
	TotalPrice   float64
}

// PriceBooking computes whole rental days, floored at one, and the
// total. Callers validate date ordering before invoking; the floor only
// guards the degenerate equal-dates case.
func PriceBooking(pricePerDay float64, startDate, endDate time.Time) Quote {
	days := int(math.Ceil(endDate.Sub(startDate).Hours() / 24))
	if days < 1 {
		days = 1
	}

	return Quote{
		DurationDays: days,
		TotalPrice:   float64(days) * pricePerDay,
	}
}

// MinorUnits converts a major-unit amount to the cents-based integer
// the payment provider expects.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
