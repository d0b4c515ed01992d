package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/pkg/payment"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

// In-memory stand-ins for the repository and provider interfaces. The
// booking fake mirrors the real reconciliation semantics (lookup by
// correlation key, update-or-insert) so duplicate-delivery behavior can
// be asserted without a database.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking

	users map[uuid.UUID]bool
	cars  map[uuid.UUID]bool

	candidates []*entity.ReminderCandidate
	marked     map[uuid.UUID]time.Time

	confirmCalls int
	markErr      error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		users:    make(map[uuid.UUID]bool),
		cars:     make(map[uuid.UUID]bool),
		marked:   make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeBookingRepo) ConfirmPayment(_ context.Context, p *repository.ConfirmPaymentParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.confirmCalls++

	for _, b := range f.bookings {
		sessionMatch := p.CheckoutSessionID != "" && b.StripeSessionID != nil && *b.StripeSessionID == p.CheckoutSessionID
		intentMatch := p.PaymentIntentID != "" && b.StripePaymentIntentID != nil && *b.StripePaymentIntentID == p.PaymentIntentID
		if sessionMatch || intentMatch {
			b.Paid = true
			b.TotalPrice = p.TotalPrice
			b.DurationDays = p.DurationDays
			b.Status = entity.BookingStatusConfirmed
			if b.StripePaymentIntentID == nil {
				pi := p.PaymentIntentID
				b.StripePaymentIntentID = &pi
			}
			b.UpdatedAt = time.Now()
			return false, nil
		}
	}

	if !f.users[p.UserID] {
		return false, fmt.Errorf("renter %s not found", p.UserID.String())
	}
	if !f.cars[p.CarID] {
		return false, fmt.Errorf("car %s not found", p.CarID.String())
	}

	id := uuid.New()
	sessionID := p.CheckoutSessionID
	intentID := p.PaymentIntentID
	booking := &entity.Booking{
		Base:         entity.Base{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		UserID:       p.UserID,
		CarID:        p.CarID,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		DurationDays: p.DurationDays,
		TotalPrice:   p.TotalPrice,
		Paid:         true,
		Status:       entity.BookingStatusConfirmed,
	}
	if sessionID != "" {
		booking.StripeSessionID = &sessionID
	}
	if intentID != "" {
		booking.StripePaymentIntentID = &intentID
	}
	f.bookings[id] = booking
	return true, nil
}

func (f *fakeBookingRepo) CancelByPaymentIntent(_ context.Context, paymentIntentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var cancelled int64
	for _, b := range f.bookings {
		if b.StripePaymentIntentID != nil && *b.StripePaymentIntentID == paymentIntentID && b.Status != entity.BookingStatusCancelled {
			b.Status = entity.BookingStatusCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

func (f *fakeBookingRepo) AttachReceiptURL(_ context.Context, paymentIntentID, receiptURL string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for _, b := range f.bookings {
		if b.StripePaymentIntentID != nil && *b.StripePaymentIntentID == paymentIntentID {
			url := receiptURL
			b.StripeReceiptURL = &url
			updated++
		}
	}
	return updated, nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, b := range f.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FindReminderCandidates(_ context.Context, _ time.Duration, _ int) ([]*entity.ReminderCandidate, error) {
	return f.candidates, nil
}

func (f *fakeBookingRepo) MarkReminderSent(_ context.Context, bookingID uuid.UUID, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked[bookingID] = at
	return nil
}

func (f *fakeBookingRepo) single() *entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		return b
	}
	return nil
}

type fakeCarRepo struct {
	mu   sync.Mutex
	cars map[uuid.UUID]*entity.Car
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: make(map[uuid.UUID]*entity.Car)}
}

func (f *fakeCarRepo) Create(_ context.Context, car *entity.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cars[car.ID] = car
	return nil
}

func (f *fakeCarRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cars[id], nil
}

func (f *fakeCarRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Car
	for _, c := range f.cars {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCarRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.cars)), nil
}

func (f *fakeCarRepo) FindFiltered(_ context.Context, _ *repository.CarFilter, _, _ int) ([]*entity.Car, error) {
	return f.FindAll(context.Background(), 0, 0)
}

func (f *fakeCarRepo) CountFiltered(_ context.Context, _ *repository.CarFilter) (int64, error) {
	return f.CountAll(context.Background())
}

func (f *fakeCarRepo) Search(_ context.Context, _ string, _ []entity.CarType) ([]*entity.Car, error) {
	return f.FindAll(context.Background(), 0, 0)
}

func (f *fakeCarRepo) CountBookings(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeCarRepo) Update(_ context.Context, car *entity.Car) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cars[car.ID] = car
	return nil
}

func (f *fakeCarRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cars, id)
	return nil
}

func (f *fakeCarRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.cars[id]
	return ok, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

type fakeSessionRepo struct{}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, _ string) (*entity.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(_ context.Context) error { return nil }

type fakeProvider struct {
	createFn func(ctx context.Context, p *payment.CheckoutParams) (*stripe.CheckoutSession, error)
	listFn   func(ctx context.Context, paymentIntentID string, limit int64) ([]*stripe.CheckoutSession, error)
	chargeFn func(ctx context.Context, chargeID string) (*stripe.Charge, error)
	verifyFn func(payload []byte, sigHeader string) (stripe.Event, error)
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, p *payment.CheckoutParams) (*stripe.CheckoutSession, error) {
	if f.createFn == nil {
		return &stripe.CheckoutSession{ID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
	}
	return f.createFn(ctx, p)
}

func (f *fakeProvider) ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string, limit int64) ([]*stripe.CheckoutSession, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, paymentIntentID, limit)
}

func (f *fakeProvider) GetCharge(ctx context.Context, chargeID string) (*stripe.Charge, error) {
	if f.chargeFn == nil {
		return &stripe.Charge{ID: chargeID}, nil
	}
	return f.chargeFn(ctx, chargeID)
}

func (f *fakeProvider) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	if f.verifyFn == nil {
		return stripe.Event{}, fmt.Errorf("no verify function configured")
	}
	return f.verifyFn(payload, sigHeader)
}

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failTo: make(map[string]bool)}
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failTo[to] {
		return fmt.Errorf("send mail to %s: status 500", to)
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

type fakeBlobStore struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeBlobStore) Put(_ context.Context, path string, _ []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return "https://blob.test/" + path, nil
}

func testRepository(booking *fakeBookingRepo, car *fakeCarRepo, users map[uuid.UUID]*entity.User) *repository.Repository {
	if users == nil {
		users = make(map[uuid.UUID]*entity.User)
	}
	return &repository.Repository{
		User:    &fakeUserRepo{users: users},
		Session: &fakeSessionRepo{},
		Car:     car,
		Booking: booking,
	}
}
