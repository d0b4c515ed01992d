package usecase

import (
	"context"
	"fmt"

	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/internal/dto/request"
	"github.com/gio213/rent-and-go/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error)
	// UpdateInvoice attaches a receipt URL by payment intent; invoked by
	// the back-office cron, not by renters.
	UpdateInvoice(ctx context.Context, req *request.UpdateInvoiceRequest) (int64, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*response.PaginatedResponse[response.BookingResponse], error) {
	offset := (page - 1) * limit

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		car, err := s.repo.Car.FindByID(ctx, booking.CarID)
		if err != nil {
			return nil, err
		}
		items = append(items, response.BookingToResponse(booking, car))
	}

	return response.NewPaginatedResponse(items, page, limit, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id.String())
	}

	car, err := s.repo.Car.FindByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, car)
	return &resp, nil
}

func (s *bookingService) UpdateInvoice(ctx context.Context, req *request.UpdateInvoiceRequest) (int64, error) {
	updated, err := s.repo.Booking.AttachReceiptURL(ctx, req.PaymentIntentID, req.ReceiptURL)
	if err != nil {
		return 0, err
	}

	s.log.Info("Invoice URL updated",
		zap.String("payment_intent_id", req.PaymentIntentID),
		zap.Int64("bookings_updated", updated),
	)
	return updated, nil
}
