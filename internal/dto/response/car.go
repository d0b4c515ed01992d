package response

import (
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
)

type CarResponse struct {
	ID           string   `json:"id"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Description  *string  `json:"description,omitempty"`
	PricePerDay  float64  `json:"price_per_day"`
	Images       []string `json:"images"`
	Doors        int      `json:"doors"`
	Seats        int      `json:"seats"`
	FuelType     string   `json:"fuel_type"`
	Transmission string   `json:"transmission"`
	Type         string   `json:"type"`

	CreatedAt time.Time `json:"created_at"`
}

type CarDetailResponse struct {
	CarResponse
	BookingCount int64 `json:"booking_count"`
}

// FilteredCarsResponse mirrors the load-more catalog contract.
type FilteredCarsResponse struct {
	Data    []CarResponse `json:"data"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Total   int64         `json:"total"`
	HasMore bool          `json:"has_more"`
}

func CarToResponse(car *entity.Car) CarResponse {
	return CarResponse{
		ID:           car.ID.String(),
		Brand:        car.Brand,
		Model:        car.Model,
		Year:         car.Year,
		Description:  car.Description,
		PricePerDay:  car.PricePerDay,
		Images:       car.Images,
		Doors:        car.Doors,
		Seats:        car.Seats,
		FuelType:     car.FuelType,
		Transmission: car.Transmission,
		Type:         string(car.Type),
		CreatedAt:    car.CreatedAt,
	}
}
