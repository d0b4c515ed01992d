package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/pkg/cache"
	"github.com/gio213/rent-and-go/pkg/metrics"
	"github.com/gio213/rent-and-go/pkg/payment"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

// ErrInvalidSignature marks webhook requests whose signature header is
// absent or fails verification against the raw body.
var ErrInvalidSignature = errors.New("invalid webhook signature")

type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) error
}

type webhookService struct {
	repo              *repository.Repository
	provider          payment.Provider
	seen              *cache.EventSet
	metrics           *metrics.Metrics
	receiptRetryDelay time.Duration
	log               *zap.Logger
}

func NewWebhookService(repo *repository.Repository, provider payment.Provider, seen *cache.EventSet, m *metrics.Metrics, receiptRetryDelay time.Duration, log *zap.Logger) WebhookService {
	return &webhookService{
		repo:              repo,
		provider:          provider,
		seen:              seen,
		metrics:           m,
		receiptRetryDelay: receiptRetryDelay,
		log:               log.With(zap.String("service", "webhook")),
	}
}

// HandleEvent verifies, deduplicates and dispatches one provider event.
// The event id is recorded as processed only after its handler returns
// without error, so a failed event stays eligible for the provider's
// automatic retry.
func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.provider.VerifyEvent(payload, sigHeader)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues("unknown", "bad_signature").Inc()
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)

	if s.seen.Contains(event.ID) {
		s.log.Info("Duplicate webhook event acknowledged",
			zap.String("event_id", event.ID),
			zap.String("event_type", eventType),
		)
		s.metrics.WebhookEvents.WithLabelValues(eventType, "duplicate").Inc()
		return nil
	}

	var handleErr error
	switch eventType {
	case "payment_intent.succeeded":
		handleErr = s.handlePaymentSucceeded(ctx, &event)
	case "payment_intent.payment_failed":
		handleErr = s.handlePaymentFailed(ctx, &event)
	case "charge.succeeded":
		handleErr = s.handleChargeSucceeded(ctx, &event)
	case "checkout.session.completed":
		// Fulfillment happens on payment_intent.succeeded; this event
		// can fire before the payment is actually captured.
		s.handleCheckoutCompleted(&event)
	default:
		s.log.Debug("Unhandled webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", eventType),
		)
	}

	if handleErr != nil {
		s.metrics.WebhookEvents.WithLabelValues(eventType, "error").Inc()
		return handleErr
	}

	s.seen.Add(event.ID)
	s.metrics.WebhookEvents.WithLabelValues(eventType, "ok").Inc()
	return nil
}

// handlePaymentSucceeded reconciles the payment into a booking row. The
// payment intent's metadata is tried first; when incomplete, the
// originating checkout session is listed (limit 1) and its metadata
// fills the gaps. That session lookup is the common path, since the
// intent bag is attached to the session at checkout creation.
func (s *webhookService) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("decode payment intent event %s: %w", event.ID, err)
	}

	raw := make(map[string]string, len(pi.Metadata))
	for k, v := range pi.Metadata {
		raw[k] = v
	}

	sessionID := ""
	if missingMetadata(raw) {
		sessions, err := s.provider.ListSessionsByPaymentIntent(ctx, pi.ID, 1)
		if err != nil {
			return fmt.Errorf("list sessions for payment intent %s: %w", pi.ID, err)
		}
		if len(sessions) > 0 {
			sessionID = sessions[0].ID
			raw = mergeMetadata(raw, sessions[0].Metadata)
		}
	}

	meta, err := ParseCheckoutMetadata(raw)
	if err != nil {
		return fmt.Errorf("payment intent %s: %w", pi.ID, err)
	}

	created, err := s.repo.Booking.ConfirmPayment(ctx, &repository.ConfirmPaymentParams{
		UserID:            meta.UserID,
		CarID:             meta.CarID,
		StartDate:         meta.StartDate,
		EndDate:           meta.EndDate,
		DurationDays:      meta.DurationDays,
		TotalPrice:        meta.TotalPrice,
		CheckoutSessionID: sessionID,
		PaymentIntentID:   pi.ID,
	})
	if err != nil {
		return err
	}

	s.log.Info("Payment reconciled",
		zap.String("event_id", event.ID),
		zap.String("payment_intent_id", pi.ID),
		zap.Bool("booking_created", created),
	)
	return nil
}

// handlePaymentFailed cancels any booking keyed by the payment intent.
// Rows stay in place for the audit trail.
func (s *webhookService) handlePaymentFailed(ctx context.Context, event *stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("decode payment intent event %s: %w", event.ID, err)
	}

	reason := ""
	if pi.LastPaymentError != nil {
		reason = pi.LastPaymentError.Msg
	}

	cancelled, err := s.repo.Booking.CancelByPaymentIntent(ctx, pi.ID)
	if err != nil {
		return err
	}

	s.log.Warn("Payment failed",
		zap.String("event_id", event.ID),
		zap.String("payment_intent_id", pi.ID),
		zap.String("reason", reason),
		zap.Int64("bookings_cancelled", cancelled),
	)
	return nil
}

// handleChargeSucceeded attaches the charge's receipt URL to the
// booking. When the URL is not yet populated, one delayed re-fetch is
// scheduled; failures on that path are logged, never escalated, since a
// missing receipt does not affect the booking's core state.
func (s *webhookService) handleChargeSucceeded(ctx context.Context, event *stripe.Event) error {
	var ch stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
		return fmt.Errorf("decode charge event %s: %w", event.ID, err)
	}

	if ch.PaymentIntent == nil || ch.PaymentIntent.ID == "" {
		s.log.Warn("Charge without payment intent, skipping receipt attachment",
			zap.String("event_id", event.ID),
			zap.String("charge_id", ch.ID),
		)
		return nil
	}
	paymentIntentID := ch.PaymentIntent.ID

	if ch.ReceiptURL != "" {
		updated, err := s.repo.Booking.AttachReceiptURL(ctx, paymentIntentID, ch.ReceiptURL)
		if err != nil {
			return err
		}
		s.log.Info("Receipt URL attached",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Int64("bookings_updated", updated),
		)
		return nil
	}

	chargeID := ch.ID
	time.AfterFunc(s.receiptRetryDelay, func() {
		retryCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fresh, err := s.provider.GetCharge(retryCtx, chargeID)
		if err != nil {
			s.log.Warn("Delayed receipt re-fetch failed",
				zap.Error(err),
				zap.String("charge_id", chargeID),
			)
			return
		}
		if fresh.ReceiptURL == "" {
			s.log.Warn("Receipt URL still not populated after retry",
				zap.String("charge_id", chargeID),
			)
			return
		}
		if _, err := s.repo.Booking.AttachReceiptURL(retryCtx, paymentIntentID, fresh.ReceiptURL); err != nil {
			s.log.Warn("Delayed receipt attachment failed",
				zap.Error(err),
				zap.String("payment_intent_id", paymentIntentID),
			)
		}
	})

	s.log.Info("Receipt URL not yet populated, re-fetch scheduled",
		zap.String("charge_id", chargeID),
		zap.Duration("delay", s.receiptRetryDelay),
	)
	return nil
}

func (s *webhookService) handleCheckoutCompleted(event *stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.log.Warn("Undecodable checkout.session.completed event",
			zap.Error(err),
			zap.String("event_id", event.ID),
		)
		return
	}

	s.log.Info("Checkout session completed",
		zap.String("event_id", event.ID),
		zap.String("session_id", sess.ID),
	)
}
