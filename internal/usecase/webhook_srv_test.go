package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
	"github.com/gio213/rent-and-go/pkg/cache"
	"github.com/gio213/rent-and-go/pkg/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

type webhookFixture struct {
	svc      WebhookService
	bookings *fakeBookingRepo
	provider *fakeProvider
	events   map[string]stripe.Event
}

// The fake verifier returns the event registered for the payload and
// rejects the sentinel "bad" signature, standing in for real signature
// verification.
func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	provider := &fakeProvider{}
	events := make(map[string]stripe.Event)

	provider.verifyFn = func(payload []byte, sigHeader string) (stripe.Event, error) {
		if sigHeader == "bad" {
			return stripe.Event{}, fmt.Errorf("signature mismatch")
		}
		event, ok := events[string(payload)]
		if !ok {
			return stripe.Event{}, fmt.Errorf("unknown payload")
		}
		return event, nil
	}

	repo := testRepository(bookings, newFakeCarRepo(), nil)
	svc := NewWebhookService(repo, provider, cache.NewEventSet(1000), metrics.NewMetrics(), time.Millisecond, zap.NewNop())

	return &webhookFixture{svc: svc, bookings: bookings, provider: provider, events: events}
}

func (f *webhookFixture) register(eventID, eventType string, object any) []byte {
	raw, _ := json.Marshal(object)
	payload := []byte(eventID)
	f.events[eventID] = stripe.Event{
		ID:   eventID,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
	return payload
}

func paymentIntentJSON(piID string, metadata map[string]string) map[string]any {
	return map[string]any{"id": piID, "metadata": metadata}
}

func TestWebhookIdempotentReconciliation(t *testing.T) {
	f := newWebhookFixture(t)

	userID := uuid.MustParse(validMetadata()["userId"])
	carID := uuid.MustParse(validMetadata()["carId"])
	f.bookings.users[userID] = true
	f.bookings.cars[carID] = true

	first := f.register("evt_1", "payment_intent.succeeded", paymentIntentJSON("pi_1", validMetadata()))
	second := f.register("evt_2", "payment_intent.succeeded", paymentIntentJSON("pi_1", validMetadata()))

	require.NoError(t, f.svc.HandleEvent(context.Background(), first, "good"))
	require.NoError(t, f.svc.HandleEvent(context.Background(), second, "good"))

	assert.Len(t, f.bookings.bookings, 1)
	booking := f.bookings.single()
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.True(t, booking.Paid)
	assert.Equal(t, 150.0, booking.TotalPrice)
	require.NotNil(t, booking.StripePaymentIntentID)
	assert.Equal(t, "pi_1", *booking.StripePaymentIntentID)
}

func TestWebhookDuplicateEventShortCircuits(t *testing.T) {
	f := newWebhookFixture(t)

	userID := uuid.MustParse(validMetadata()["userId"])
	carID := uuid.MustParse(validMetadata()["carId"])
	f.bookings.users[userID] = true
	f.bookings.cars[carID] = true

	payload := f.register("evt_1", "payment_intent.succeeded", paymentIntentJSON("pi_1", validMetadata()))

	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))
	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))

	// Same event id: the second delivery is acknowledged from the dedup
	// set without touching the repository again.
	assert.Equal(t, 1, f.bookings.confirmCalls)
}

func TestWebhookMetadataFallbackToSession(t *testing.T) {
	f := newWebhookFixture(t)

	userID := uuid.MustParse(validMetadata()["userId"])
	carID := uuid.MustParse(validMetadata()["carId"])
	f.bookings.users[userID] = true
	f.bookings.cars[carID] = true

	f.provider.listFn = func(_ context.Context, paymentIntentID string, limit int64) ([]*stripe.CheckoutSession, error) {
		assert.Equal(t, "pi_1", paymentIntentID)
		assert.Equal(t, int64(1), limit)
		return []*stripe.CheckoutSession{
			{ID: "cs_1", Metadata: validMetadata()},
		}, nil
	}

	// Payment intent arrives with an empty metadata bag.
	payload := f.register("evt_1", "payment_intent.succeeded", paymentIntentJSON("pi_1", nil))
	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))

	booking := f.bookings.single()
	require.NotNil(t, booking)
	assert.Equal(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), booking.StartDate)
	assert.Equal(t, time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC), booking.EndDate)
	require.NotNil(t, booking.StripeSessionID)
	assert.Equal(t, "cs_1", *booking.StripeSessionID)
}

func TestWebhookMissingMetadataNotMarkedProcessed(t *testing.T) {
	f := newWebhookFixture(t)

	payload := f.register("evt_1", "payment_intent.succeeded", paymentIntentJSON("pi_1", nil))

	err := f.svc.HandleEvent(context.Background(), payload, "good")
	require.ErrorIs(t, err, ErrMissingMetadata)
	assert.Empty(t, f.bookings.bookings)

	// Provider retry dispatches again instead of hitting the dedup set.
	err = f.svc.HandleEvent(context.Background(), payload, "good")
	require.ErrorIs(t, err, ErrMissingMetadata)
	assert.Equal(t, 0, f.bookings.confirmCalls)
}

func TestWebhookBadSignatureRejectedWithoutSideEffects(t *testing.T) {
	f := newWebhookFixture(t)

	payload := f.register("evt_1", "payment_intent.succeeded", paymentIntentJSON("pi_1", validMetadata()))

	err := f.svc.HandleEvent(context.Background(), payload, "bad")
	require.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, 0, f.bookings.confirmCalls)
}

func TestWebhookPaymentFailedCancelsNotDeletes(t *testing.T) {
	f := newWebhookFixture(t)

	piID := "pi_1"
	bookingID := uuid.New()
	f.bookings.bookings[bookingID] = &entity.Booking{
		Base:                  entity.Base{ID: bookingID},
		StartDate:             time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC),
		TotalPrice:            150,
		Paid:                  true,
		Status:                entity.BookingStatusConfirmed,
		StripePaymentIntentID: &piID,
	}

	payload := f.register("evt_1", "payment_intent.payment_failed", map[string]any{
		"id":                 piID,
		"last_payment_error": map[string]any{"message": "card declined"},
	})

	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))

	booking := f.bookings.bookings[bookingID]
	require.NotNil(t, booking, "booking row must survive a failed payment")
	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
	assert.Equal(t, 150.0, booking.TotalPrice)
	assert.Equal(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), booking.StartDate)
}

func TestWebhookChargeSucceededAttachesReceipt(t *testing.T) {
	f := newWebhookFixture(t)

	piID := "pi_1"
	bookingID := uuid.New()
	f.bookings.bookings[bookingID] = &entity.Booking{
		Base:                  entity.Base{ID: bookingID},
		Status:                entity.BookingStatusConfirmed,
		StripePaymentIntentID: &piID,
	}

	payload := f.register("evt_1", "charge.succeeded", map[string]any{
		"id":             "ch_1",
		"payment_intent": map[string]any{"id": piID},
		"receipt_url":    "https://receipts.test/r_1",
	})

	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))

	booking := f.bookings.bookings[bookingID]
	require.NotNil(t, booking.StripeReceiptURL)
	assert.Equal(t, "https://receipts.test/r_1", *booking.StripeReceiptURL)
}

func TestWebhookChargeWithoutReceiptSchedulesRefetch(t *testing.T) {
	f := newWebhookFixture(t)

	piID := "pi_1"
	bookingID := uuid.New()
	f.bookings.bookings[bookingID] = &entity.Booking{
		Base:                  entity.Base{ID: bookingID},
		Status:                entity.BookingStatusConfirmed,
		StripePaymentIntentID: &piID,
	}

	fetched := make(chan struct{})
	f.provider.chargeFn = func(_ context.Context, chargeID string) (*stripe.Charge, error) {
		defer close(fetched)
		return &stripe.Charge{ID: chargeID, ReceiptURL: "https://receipts.test/late"}, nil
	}

	payload := f.register("evt_1", "charge.succeeded", map[string]any{
		"id":             "ch_1",
		"payment_intent": map[string]any{"id": piID},
	})

	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed charge re-fetch never ran")
	}

	// The attach runs right after the fetch inside the same goroutine;
	// poll briefly for it to land.
	deadline := time.Now().Add(time.Second)
	for {
		f.bookings.mu.Lock()
		url := f.bookings.bookings[bookingID].StripeReceiptURL
		f.bookings.mu.Unlock()
		if url != nil {
			assert.Equal(t, "https://receipts.test/late", *url)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("receipt URL never attached after re-fetch")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebhookCheckoutCompletedIsLogOnly(t *testing.T) {
	f := newWebhookFixture(t)

	payload := f.register("evt_1", "checkout.session.completed", map[string]any{
		"id": "cs_1", "metadata": validMetadata(),
	})

	require.NoError(t, f.svc.HandleEvent(context.Background(), payload, "good"))
	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, 0, f.bookings.confirmCalls)
}
