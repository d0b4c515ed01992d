package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/internal/dto/request"
	"github.com/gio213/rent-and-go/internal/dto/response"
	"github.com/gio213/rent-and-go/pkg/metrics"
	"github.com/gio213/rent-and-go/pkg/payment"
	"github.com/gio213/rent-and-go/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout error codes surfaced to the renter-facing client.
const (
	CheckoutCodeNotAuthenticated = "NOT_AUTHENTICATED"
	CheckoutCodeBaseURLMissing   = "BASE_URL_MISSING"
	CheckoutCodeInvalidPrice     = "INVALID_PRICE"
	CheckoutCodeNoSessionURL     = "NO_SESSION_URL"
	CheckoutCodeUnknown          = "UNKNOWN_ERROR"
)

// CheckoutError carries a stable code alongside the human message.
type CheckoutError struct {
	Code    string
	Message string
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type CheckoutService interface {
	CreateCheckout(ctx context.Context, req *request.CreateCheckoutRequest) (*response.CheckoutResponse, error)
}

type checkoutService struct {
	repo     *repository.Repository
	provider payment.Provider
	metrics  *metrics.Metrics
	baseURL  string
	currency string
	log      *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, provider payment.Provider, m *metrics.Metrics, baseURL, currency string, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo:     repo,
		provider: provider,
		metrics:  m,
		baseURL:  baseURL,
		currency: currency,
		log:      log.With(zap.String("service", "checkout")),
	}
}

// CreateCheckout validates the booking intent, prices it, and asks the
// provider for a hosted session carrying the intent as metadata. No
// booking row is written here; that happens when the payment webhook
// arrives.
func (s *checkoutService) CreateCheckout(ctx context.Context, req *request.CreateCheckoutRequest) (*response.CheckoutResponse, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, s.fail(&CheckoutError{Code: CheckoutCodeNotAuthenticated, Message: "no authenticated renter"})
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, fmt.Errorf("invalid car id %q", req.CarID)
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q", req.StartDate)
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q", req.EndDate)
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("invalid date range: end date must be after start date")
	}

	if s.baseURL == "" {
		return nil, s.fail(&CheckoutError{Code: CheckoutCodeBaseURLMissing, Message: "base URL is not configured"})
	}

	car, err := s.repo.Car.FindByID(ctx, carID)
	if err != nil {
		return nil, s.fail(&CheckoutError{Code: CheckoutCodeUnknown, Message: err.Error()})
	}
	if car == nil {
		return nil, fmt.Errorf("car %s not found", carID.String())
	}

	quote := PriceBooking(car.PricePerDay, startDate, endDate)
	amount := MinorUnits(quote.TotalPrice)
	if amount <= 0 {
		return nil, s.fail(&CheckoutError{
			Code:    CheckoutCodeInvalidPrice,
			Message: fmt.Sprintf("computed amount %d is not positive", amount),
		})
	}

	locale := utils.GetLocaleFromContext(ctx)
	imageURL := ""
	if len(car.Images) > 0 {
		imageURL = car.Images[0]
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, &payment.CheckoutParams{
		Currency:    s.currency,
		UnitAmount:  amount,
		ProductName: fmt.Sprintf("%s %s", car.Brand, car.Model),
		ProductDescription: fmt.Sprintf("%d day rental, %s to %s",
			quote.DurationDays,
			startDate.Format("Jan 2, 2006"),
			endDate.Format("Jan 2, 2006"),
		),
		ImageURL: imageURL,
		Metadata: EncodeCheckoutMetadata(&CheckoutMetadata{
			UserID:       userID,
			CarID:        carID,
			StartDate:    startDate,
			EndDate:      endDate,
			TotalPrice:   quote.TotalPrice,
			DurationDays: quote.DurationDays,
		}),
		SuccessURL:   fmt.Sprintf("%s/%s/my-bookings/", s.baseURL, locale),
		CancelURL:    fmt.Sprintf("%s/%s/car-detail/%s", s.baseURL, locale, carID.String()),
		TermsMessage: "I agree to the rental terms and conditions",
	})
	if err != nil {
		s.log.Error("Checkout session creation failed",
			zap.Error(err),
			zap.String("car_id", carID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, s.fail(&CheckoutError{Code: CheckoutCodeUnknown, Message: err.Error()})
	}
	if sess.URL == "" {
		return nil, s.fail(&CheckoutError{Code: CheckoutCodeNoSessionURL, Message: "provider returned no session URL"})
	}

	s.metrics.CheckoutsTotal.WithLabelValues("success").Inc()
	s.log.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("car_id", carID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("amount", amount),
	)

	return &response.CheckoutResponse{URL: sess.URL}, nil
}

func (s *checkoutService) fail(cerr *CheckoutError) error {
	s.metrics.CheckoutsTotal.WithLabelValues(cerr.Code).Inc()
	return cerr
}
