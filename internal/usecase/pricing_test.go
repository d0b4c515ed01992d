package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceBooking(t *testing.T) {
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		pricePerDay  float64
		start        time.Time
		end          time.Time
		wantDays     int
		wantTotal    float64
		wantMinorAmt int64
	}{
		{
			name:         "three full days",
			pricePerDay:  50,
			start:        base,
			end:          base.AddDate(0, 0, 3),
			wantDays:     3,
			wantTotal:    150,
			wantMinorAmt: 15000,
		},
		{
			name:         "partial day rounds up",
			pricePerDay:  40,
			start:        base,
			end:          base.Add(25 * time.Hour),
			wantDays:     2,
			wantTotal:    80,
			wantMinorAmt: 8000,
		},
		{
			name:         "equal dates floor to one day",
			pricePerDay:  99.5,
			start:        base,
			end:          base,
			wantDays:     1,
			wantTotal:    99.5,
			wantMinorAmt: 9950,
		},
		{
			name:         "under a day floors to one",
			pricePerDay:  30,
			start:        base,
			end:          base.Add(6 * time.Hour),
			wantDays:     1,
			wantTotal:    30,
			wantMinorAmt: 3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := PriceBooking(tt.pricePerDay, tt.start, tt.end)

			assert.Equal(t, tt.wantDays, quote.DurationDays)
			assert.Equal(t, tt.wantTotal, quote.TotalPrice)
			assert.Equal(t, tt.wantMinorAmt, MinorUnits(quote.TotalPrice))
		})
	}
}

func TestMinorUnitsRounding(t *testing.T) {
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(1000), MinorUnits(9.999))
	assert.Equal(t, int64(0), MinorUnits(0))
}
