package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMetadata() map[string]string {
	return map[string]string{
		"userId":       "7b0c9a52-1f36-4a0a-9a78-6a1f6f6b9e01",
		"carId":        "3b52e5a1-8f0f-4f7e-b2a9-9f3d1d2c4e02",
		"startDate":    "2024-03-10T10:00:00Z",
		"endDate":      "2024-03-13T10:00:00Z",
		"totalPrice":   "150",
		"durationDays": "3",
	}
}

func TestParseCheckoutMetadata(t *testing.T) {
	meta, err := ParseCheckoutMetadata(validMetadata())
	require.NoError(t, err)

	assert.Equal(t, uuid.MustParse("7b0c9a52-1f36-4a0a-9a78-6a1f6f6b9e01"), meta.UserID)
	assert.Equal(t, uuid.MustParse("3b52e5a1-8f0f-4f7e-b2a9-9f3d1d2c4e02"), meta.CarID)
	assert.Equal(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), meta.StartDate)
	assert.Equal(t, 150.0, meta.TotalPrice)
	assert.Equal(t, 3, meta.DurationDays)
}

func TestParseCheckoutMetadataFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[string]string)
		wantErr error
	}{
		{
			name:    "missing renter id",
			mutate:  func(m map[string]string) { delete(m, "userId") },
			wantErr: ErrMissingMetadata,
		},
		{
			name:    "empty duration",
			mutate:  func(m map[string]string) { m["durationDays"] = "" },
			wantErr: ErrMissingMetadata,
		},
		{
			name:    "malformed renter id",
			mutate:  func(m map[string]string) { m["userId"] = "not-a-uuid" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "malformed car id",
			mutate:  func(m map[string]string) { m["carId"] = "42" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "garbage start date",
			mutate:  func(m map[string]string) { m["startDate"] = "next tuesday" },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "end before start",
			mutate:  func(m map[string]string) { m["endDate"] = "2024-03-01T10:00:00Z" },
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "end equals start",
			mutate:  func(m map[string]string) { m["endDate"] = m["startDate"] },
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "non-numeric price",
			mutate:  func(m map[string]string) { m["totalPrice"] = "lots" },
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "negative price",
			mutate:  func(m map[string]string) { m["totalPrice"] = "-5" },
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "zero duration",
			mutate:  func(m map[string]string) { m["durationDays"] = "0" },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "fractional duration",
			mutate:  func(m map[string]string) { m["durationDays"] = "2.5" },
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetadata()
			tt.mutate(m)

			_, err := ParseCheckoutMetadata(m)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMergeMetadataPrefersPresentValues(t *testing.T) {
	primary := map[string]string{
		"userId": "primary-user",
		"carId":  "",
	}
	fallback := map[string]string{
		"userId":    "fallback-user",
		"carId":     "fallback-car",
		"startDate": "2024-03-10T10:00:00Z",
	}

	merged := mergeMetadata(primary, fallback)

	assert.Equal(t, "primary-user", merged["userId"])
	assert.Equal(t, "fallback-car", merged["carId"])
	assert.Equal(t, "2024-03-10T10:00:00Z", merged["startDate"])
}

func TestEncodeRoundTrip(t *testing.T) {
	original := &CheckoutMetadata{
		UserID:       uuid.New(),
		CarID:        uuid.New(),
		StartDate:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC),
		TotalPrice:   210.5,
		DurationDays: 3,
	}

	parsed, err := ParseCheckoutMetadata(EncodeCheckoutMetadata(original))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestMissingMetadata(t *testing.T) {
	assert.False(t, missingMetadata(validMetadata()))

	m := validMetadata()
	m["endDate"] = ""
	assert.True(t, missingMetadata(m))

	assert.True(t, missingMetadata(map[string]string{}))
}
