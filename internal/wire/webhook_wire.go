package wire

import (
	"github.com/gio213/rent-and-go/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// Authenticated by the Stripe-Signature header, never by session.
	r.Post("/api/stripe-webhook", webhookHandler.HandleStripeWebhook)
}
