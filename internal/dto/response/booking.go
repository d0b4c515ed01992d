package response

import (
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
)

type BookingResponse struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	CarID        string               `json:"car_id"`
	CarBrand     string               `json:"car_brand,omitempty"`
	CarModel     string               `json:"car_model,omitempty"`
	CarImage     string               `json:"car_image,omitempty"`
	StartDate    time.Time            `json:"start_date"`
	EndDate      time.Time            `json:"end_date"`
	DurationDays int                  `json:"duration_days"`
	TotalPrice   float64              `json:"total_price"`
	Paid         bool                 `json:"paid"`
	Status       entity.BookingStatus `json:"status"`
	ReceiptURL   *string              `json:"receipt_url,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking, car *entity.Car) BookingResponse {
	resp := BookingResponse{
		ID:           booking.ID.String(),
		UserID:       booking.UserID.String(),
		CarID:        booking.CarID.String(),
		StartDate:    booking.StartDate,
		EndDate:      booking.EndDate,
		DurationDays: booking.DurationDays,
		TotalPrice:   booking.TotalPrice,
		Paid:         booking.Paid,
		Status:       booking.Status,
		ReceiptURL:   booking.StripeReceiptURL,
		CreatedAt:    booking.CreatedAt,
	}

	if car != nil {
		resp.CarBrand = car.Brand
		resp.CarModel = car.Model
		if len(car.Images) > 0 {
			resp.CarImage = car.Images[0]
		}
	}

	return resp
}
