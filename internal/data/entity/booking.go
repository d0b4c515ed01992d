package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking rows are created and updated only by the payment reconciler;
// the reminder sweeper additionally stamps reminder_sent_at.
// StripeSessionID and StripePaymentIntentID are the idempotency lookup
// keys for duplicate webhook delivery.
type Booking struct {
	Base
	UserID                uuid.UUID     `db:"user_id"`
	CarID                 uuid.UUID     `db:"car_id"`
	StartDate             time.Time     `db:"start_date"`
	EndDate               time.Time     `db:"end_date"`
	DurationDays          int           `db:"duration_days"`
	TotalPrice            float64       `db:"total_price"`
	Paid                  bool          `db:"paid"`
	Status                BookingStatus `db:"status"`
	StripeSessionID       *string       `db:"stripe_session_id"`
	StripePaymentIntentID *string       `db:"stripe_payment_intent_id"`
	StripeReceiptURL      *string       `db:"stripe_receipt_url"`
	ReminderSentAt        *time.Time    `db:"reminder_sent_at"`
}

// ReminderCandidate is the coarse sweep projection: booking end plus the
// renter's timezone and email, joined in one query.
type ReminderCandidate struct {
	BookingID uuid.UUID `db:"booking_id"`
	EndDate   time.Time `db:"end_date"`
	TimeZone  *string   `db:"time_zone"`
	Email     string    `db:"email"`
}
