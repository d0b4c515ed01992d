package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the same way Stripe
// does: v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyEvent(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		header := signPayload(payload, testWebhookSecret, time.Now())

		event, err := provider.VerifyEvent(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, "payment_intent.succeeded", string(event.Type))
	})

	t.Run("older pinned api version accepted", func(t *testing.T) {
		pinned := []byte(`{"id":"evt_2","object":"event","api_version":"2023-10-16","type":"payment_intent.succeeded","data":{"object":{"id":"pi_2"}}}`)
		header := signPayload(pinned, testWebhookSecret, time.Now())

		event, err := provider.VerifyEvent(pinned, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_2", event.ID)
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		header := signPayload(payload, testWebhookSecret, time.Now())
		tampered := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_evil"}}}`)

		_, err := provider.VerifyEvent(tampered, header)
		assert.Error(t, err)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		_, err := provider.VerifyEvent(payload, "")
		assert.Error(t, err)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		header := signPayload(payload, "whsec_other_secret", time.Now())

		_, err := provider.VerifyEvent(payload, header)
		assert.Error(t, err)
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		header := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

		_, err := provider.VerifyEvent(payload, header)
		assert.Error(t, err)
	})
}
