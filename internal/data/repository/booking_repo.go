package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
	"github.com/gio213/rent-and-go/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ConfirmPaymentParams carries the validated checkout metadata into the
// reconciliation transaction.
type ConfirmPaymentParams struct {
	UserID            uuid.UUID
	CarID             uuid.UUID
	StartDate         time.Time
	EndDate           time.Time
	DurationDays      int
	TotalPrice        float64
	CheckoutSessionID string
	PaymentIntentID   string
}

type BookingRepository interface {
	// ConfirmPayment is the idempotent reconciliation write: lookup by
	// session or payment-intent id, then update-or-insert, all in one
	// transaction. Returns whether a new row was created.
	ConfirmPayment(ctx context.Context, p *ConfirmPaymentParams) (bool, error)
	CancelByPaymentIntent(ctx context.Context, paymentIntentID string) (int64, error)
	AttachReceiptURL(ctx context.Context, paymentIntentID, receiptURL string) (int64, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	FindReminderCandidates(ctx context.Context, window time.Duration, limit int) ([]*entity.ReminderCandidate, error)
	MarkReminderSent(ctx context.Context, bookingID uuid.UUID, at time.Time) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, car_id, start_date, end_date, duration_days, total_price, paid, status, stripe_session_id, stripe_payment_intent_id, stripe_receipt_url, reminder_sent_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CarID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.DurationDays,
		&booking.TotalPrice,
		&booking.Paid,
		&booking.Status,
		&booking.StripeSessionID,
		&booking.StripePaymentIntentID,
		&booking.StripeReceiptURL,
		&booking.ReminderSentAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ConfirmPayment runs the lookup-before-write inside one transaction.
// Duplicate webhook deliveries for the same session or payment intent
// serialize on the row lock and take the update path, so at most one
// booking exists per correlation key.
func (r *bookingRepository) ConfirmPayment(ctx context.Context, p *ConfirmPaymentParams) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin confirm payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID uuid.UUID
	// NULLIF keeps an unknown session id from matching other rows that
	// also lack one.
	err = tx.QueryRow(ctx, `
		SELECT id FROM bookings
		WHERE stripe_session_id = NULLIF($1, '') OR stripe_payment_intent_id = NULLIF($2, '')
		FOR UPDATE
	`, p.CheckoutSessionID, p.PaymentIntentID).Scan(&existingID)

	switch {
	case err == nil:
		// Already reconciled once (or a PENDING row exists for this
		// checkout): refresh from the validated metadata.
		_, err = tx.Exec(ctx, `
			UPDATE bookings
			SET paid = TRUE,
			    total_price = $2,
			    duration_days = $3,
			    status = $4,
			    stripe_payment_intent_id = COALESCE(stripe_payment_intent_id, $5),
			    updated_at = NOW()
			WHERE id = $1
		`, existingID, p.TotalPrice, p.DurationDays, entity.BookingStatusConfirmed, p.PaymentIntentID)
		if err != nil {
			return false, fmt.Errorf("update booking %s: %w", existingID.String(), err)
		}

		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit confirm payment tx: %w", err)
		}

		r.log.Info("Booking updated to confirmed",
			zap.String("booking_id", existingID.String()),
			zap.String("payment_intent_id", p.PaymentIntentID),
		)
		return false, nil

	case err == pgx.ErrNoRows:
		// Creation would violate foreign keys if renter or car vanished
		// upstream; surface which one is missing.
		var renterExists, carExists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, p.UserID).Scan(&renterExists); err != nil {
			return false, fmt.Errorf("check renter %s exists: %w", p.UserID.String(), err)
		}
		if !renterExists {
			return false, fmt.Errorf("renter %s not found", p.UserID.String())
		}
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = $1)`, p.CarID).Scan(&carExists); err != nil {
			return false, fmt.Errorf("check car %s exists: %w", p.CarID.String(), err)
		}
		if !carExists {
			return false, fmt.Errorf("car %s not found", p.CarID.String())
		}

		bookingID := uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, user_id, car_id, start_date, end_date, duration_days,
			                      total_price, paid, status, stripe_session_id,
			                      stripe_payment_intent_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, NULLIF($9, ''), NULLIF($10, ''), NOW(), NOW())
		`,
			bookingID,
			p.UserID,
			p.CarID,
			p.StartDate,
			p.EndDate,
			p.DurationDays,
			p.TotalPrice,
			entity.BookingStatusConfirmed,
			p.CheckoutSessionID,
			p.PaymentIntentID,
		)
		if err != nil {
			return false, fmt.Errorf("create booking for payment intent %s: %w", p.PaymentIntentID, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("commit confirm payment tx: %w", err)
		}

		r.log.Info("Booking created from payment",
			zap.String("booking_id", bookingID.String()),
			zap.String("user_id", p.UserID.String()),
			zap.String("car_id", p.CarID.String()),
			zap.String("payment_intent_id", p.PaymentIntentID),
			zap.Float64("total_price", p.TotalPrice),
		)
		return true, nil

	default:
		return false, fmt.Errorf("lookup booking for payment intent %s: %w", p.PaymentIntentID, err)
	}
}

// CancelByPaymentIntent transitions every non-cancelled booking for the
// payment intent to CANCELLED. Rows are never deleted; the financial
// trail stays intact.
func (r *bookingRepository) CancelByPaymentIntent(ctx context.Context, paymentIntentID string) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE stripe_payment_intent_id = $1 AND status <> $2
	`

	result, err := r.db.Exec(ctx, query, paymentIntentID, entity.BookingStatusCancelled)
	if err != nil {
		r.log.Error("Failed to cancel bookings by payment intent",
			zap.Error(err),
			zap.String("payment_intent_id", paymentIntentID),
		)
		return 0, fmt.Errorf("cancel bookings for payment intent %s: %w", paymentIntentID, err)
	}

	return result.RowsAffected(), nil
}

func (r *bookingRepository) AttachReceiptURL(ctx context.Context, paymentIntentID, receiptURL string) (int64, error) {
	query := `
		UPDATE bookings
		SET stripe_receipt_url = $2, updated_at = NOW()
		WHERE stripe_payment_intent_id = $1
	`

	result, err := r.db.Exec(ctx, query, paymentIntentID, receiptURL)
	if err != nil {
		r.log.Error("Failed to attach receipt URL",
			zap.Error(err),
			zap.String("payment_intent_id", paymentIntentID),
		)
		return 0, fmt.Errorf("attach receipt URL for payment intent %s: %w", paymentIntentID, err)
	}

	return result.RowsAffected(), nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

// FindReminderCandidates is the coarse sweep query: unreminded bookings
// ending inside the window, renter email and timezone joined in. The
// precise per-timezone filter happens in the service.
func (r *bookingRepository) FindReminderCandidates(ctx context.Context, window time.Duration, limit int) ([]*entity.ReminderCandidate, error) {
	query := `
		SELECT b.id, b.end_date, u.time_zone, u.email
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.reminder_sent_at IS NULL
		  AND b.end_date >= NOW()
		  AND b.end_date <= NOW() + $1::interval
		ORDER BY b.end_date
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, window.String(), limit)
	if err != nil {
		r.log.Error("Failed to find reminder candidates", zap.Error(err))
		return nil, fmt.Errorf("find reminder candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*entity.ReminderCandidate
	for rows.Next() {
		var c entity.ReminderCandidate
		if err := rows.Scan(&c.BookingID, &c.EndDate, &c.TimeZone, &c.Email); err != nil {
			r.log.Error("Failed to scan reminder candidate", zap.Error(err))
			return nil, fmt.Errorf("scan reminder candidate: %w", err)
		}
		candidates = append(candidates, &c)
	}

	return candidates, nil
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, bookingID uuid.UUID, at time.Time) error {
	query := `UPDATE bookings SET reminder_sent_at = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, at)
	if err != nil {
		r.log.Error("Failed to mark reminder sent",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("mark reminder sent for booking %s: %w", bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}
