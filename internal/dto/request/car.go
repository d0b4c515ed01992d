package request

type CreateCarRequest struct {
	Brand        string  `json:"brand" validate:"required,min=1,max=100"`
	Model        string  `json:"model" validate:"required,min=1,max=100"`
	Year         int     `json:"year" validate:"required,gte=1950"`
	Description  *string `json:"description,omitempty"`
	PricePerDay  float64 `json:"price_per_day" validate:"required,gt=0"`
	Doors        int     `json:"doors" validate:"required,gte=2,lte=6"`
	Seats        int     `json:"seats" validate:"required,gte=1,lte=9"`
	FuelType     string  `json:"fuel_type" validate:"required,oneof=petrol diesel electric hybrid lpg"`
	Transmission string  `json:"transmission" validate:"required,oneof=automatic manual cvt"`
	Type         string  `json:"type" validate:"required,oneof=SEDAN SUV TRUCK COUPE CONVERTIBLE HATCHBACK MINIVAN WAGON"`
	// Images arrive as separate multipart parts and are uploaded to the
	// blob store; this field carries any pre-uploaded URLs.
	Images []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type UpdateCarRequest struct {
	Brand        *string  `json:"brand,omitempty" validate:"omitempty,min=1,max=100"`
	Model        *string  `json:"model,omitempty" validate:"omitempty,min=1,max=100"`
	Year         *int     `json:"year,omitempty" validate:"omitempty,gte=1950"`
	Description  *string  `json:"description,omitempty"`
	PricePerDay  *float64 `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	Doors        *int     `json:"doors,omitempty" validate:"omitempty,gte=2,lte=6"`
	Seats        *int     `json:"seats,omitempty" validate:"omitempty,gte=1,lte=9"`
	FuelType     *string  `json:"fuel_type,omitempty" validate:"omitempty,oneof=petrol diesel electric hybrid lpg"`
	Transmission *string  `json:"transmission,omitempty" validate:"omitempty,oneof=automatic manual cvt"`
	Type         *string  `json:"type,omitempty" validate:"omitempty,oneof=SEDAN SUV TRUCK COUPE CONVERTIBLE HATCHBACK MINIVAN WAGON"`
	Images       []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// FilterCarsRequest mirrors the catalog filter query string: boolean
// flags per car type / fuel / transmission plus a price range.
type FilterCarsRequest struct {
	MinPrice      *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice      *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Types         []string `json:"types,omitempty" validate:"omitempty,dive,oneof=SEDAN SUV TRUCK COUPE CONVERTIBLE HATCHBACK MINIVAN WAGON"`
	FuelTypes     []string `json:"fuel_types,omitempty" validate:"omitempty,dive,oneof=petrol diesel electric hybrid lpg"`
	Transmissions []string `json:"transmissions,omitempty" validate:"omitempty,dive,oneof=automatic manual cvt"`
	Page          int      `json:"page" validate:"min=1"`
	Limit         int      `json:"limit" validate:"min=1,max=50"`
}
