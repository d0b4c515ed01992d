package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Checkout metadata is the only channel booking intent survives the
// asynchronous round-trip to the payment provider: string-only, so
// every field is serialized here and re-parsed with explicit validation
// on the way back.
var (
	ErrMissingMetadata  = errors.New("missing required metadata")
	ErrInvalidID        = errors.New("invalid metadata id")
	ErrInvalidDate      = errors.New("invalid metadata date")
	ErrInvalidDateRange = errors.New("invalid metadata date range")
	ErrInvalidPrice     = errors.New("invalid metadata price")
	ErrInvalidDuration  = errors.New("invalid metadata duration")
)

const (
	metaUserID       = "userId"
	metaCarID        = "carId"
	metaStartDate    = "startDate"
	metaEndDate      = "endDate"
	metaTotalPrice   = "totalPrice"
	metaDurationDays = "durationDays"
)

var requiredMetadataKeys = []string{
	metaUserID, metaCarID, metaStartDate, metaEndDate, metaTotalPrice, metaDurationDays,
}

// CheckoutMetadata is the validated booking intent carried through the
// provider's metadata bag.
type CheckoutMetadata struct {
	UserID       uuid.UUID
	CarID        uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	TotalPrice   float64
	DurationDays int
}

func EncodeCheckoutMetadata(m *CheckoutMetadata) map[string]string {
	return map[string]string{
		metaUserID:       m.UserID.String(),
		metaCarID:        m.CarID.String(),
		metaStartDate:    m.StartDate.UTC().Format(time.RFC3339),
		metaEndDate:      m.EndDate.UTC().Format(time.RFC3339),
		metaTotalPrice:   strconv.FormatFloat(m.TotalPrice, 'f', -1, 64),
		metaDurationDays: strconv.Itoa(m.DurationDays),
	}
}

// missingMetadata reports whether any required field is absent, which
// triggers the checkout-session fallback lookup.
func missingMetadata(raw map[string]string) bool {
	for _, key := range requiredMetadataKeys {
		if raw[key] == "" {
			return true
		}
	}
	return false
}

// mergeMetadata fills fields absent from the payment intent's bag with
// the checkout session's values. Present fields are never overwritten.
func mergeMetadata(primary, fallback map[string]string) map[string]string {
	merged := make(map[string]string, len(primary)+len(fallback))
	for k, v := range primary {
		merged[k] = v
	}
	for k, v := range fallback {
		if merged[k] == "" {
			merged[k] = v
		}
	}
	return merged
}

// ParseCheckoutMetadata validates the merged string bag back into typed
// booking intent.
func ParseCheckoutMetadata(raw map[string]string) (*CheckoutMetadata, error) {
	for _, key := range requiredMetadataKeys {
		if raw[key] == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingMetadata, key)
		}
	}

	userID, err := uuid.Parse(raw[metaUserID])
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a renter id", ErrInvalidID, metaUserID)
	}
	carID, err := uuid.Parse(raw[metaCarID])
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a car id", ErrInvalidID, metaCarID)
	}

	startDate, err := time.Parse(time.RFC3339, raw[metaStartDate])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, metaStartDate)
	}
	endDate, err := time.Parse(time.RFC3339, raw[metaEndDate])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, metaEndDate)
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("%w: %s must be after %s", ErrInvalidDateRange, metaEndDate, metaStartDate)
	}

	totalPrice, err := strconv.ParseFloat(raw[metaTotalPrice], 64)
	if err != nil || totalPrice <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, raw[metaTotalPrice])
	}

	durationDays, err := strconv.Atoi(raw[metaDurationDays])
	if err != nil || durationDays <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDuration, raw[metaDurationDays])
	}

	return &CheckoutMetadata{
		UserID:       userID,
		CarID:        carID,
		StartDate:    startDate,
		EndDate:      endDate,
		TotalPrice:   totalPrice,
		DurationDays: durationDays,
	}, nil
}
