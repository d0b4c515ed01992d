package adaptor

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gio213/rent-and-go/internal/usecase"
	"github.com/gio213/rent-and-go/pkg/utils"

	"go.uber.org/zap"
)

// Stripe webhook bodies are small; cap reads well above the largest
// event payload.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandleStripeWebhook handles POST /api/stripe-webhook. The raw body is
// passed through untouched: signature verification runs over the exact
// bytes Stripe signed.
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.log.Warn("Failed to read webhook body", zap.Error(err))
		utils.RawResponse(w, http.StatusBadRequest, "unreadable body")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")

	if err := h.service.HandleEvent(r.Context(), payload, sigHeader); err != nil {
		h.respondError(w, err)
		return
	}

	utils.RawResponse(w, http.StatusOK, "ok")
}

// respondError picks the status that steers Stripe's retry behavior:
// 4xx for unfixable-by-retry input problems, 404 for upstream data
// inconsistency, 500 for anything transient.
func (h *WebhookHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSignature):
		h.log.Warn("Webhook signature rejected", zap.Error(err))
		utils.RawResponse(w, http.StatusBadRequest, "invalid signature")

	case errors.Is(err, usecase.ErrMissingMetadata),
		errors.Is(err, usecase.ErrInvalidID),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidDuration):
		h.log.Warn("Webhook metadata rejected", zap.Error(err))
		utils.RawResponse(w, http.StatusBadRequest, err.Error())

	case strings.Contains(err.Error(), "not found"):
		h.log.Warn("Webhook references missing record", zap.Error(err))
		utils.RawResponse(w, http.StatusNotFound, err.Error())

	default:
		h.log.Error("Webhook processing failed", zap.Error(err))
		utils.RawResponse(w, http.StatusInternalServerError, "internal error")
	}
}
