package entity

type CarType string

const (
	CarTypeSedan       CarType = "SEDAN"
	CarTypeSUV         CarType = "SUV"
	CarTypeTruck       CarType = "TRUCK"
	CarTypeCoupe       CarType = "COUPE"
	CarTypeConvertible CarType = "CONVERTIBLE"
	CarTypeHatchback   CarType = "HATCHBACK"
	CarTypeMinivan     CarType = "MINIVAN"
	CarTypeWagon       CarType = "WAGON"
)

type Car struct {
	Base
	Brand        string   `db:"brand"`
	Model        string   `db:"model"`
	Year         int      `db:"year"`
	Description  *string  `db:"description"`
	PricePerDay  float64  `db:"price_per_day"`
	Images       []string `db:"images"`
	Doors        int      `db:"doors"`
	Seats        int      `db:"seats"`
	FuelType     string   `db:"fuel_type"`
	Transmission string   `db:"transmission"`
	Type         CarType  `db:"type"`
}
