package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/gio213/rent-and-go/internal/data/entity"
	"github.com/gio213/rent-and-go/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CarFilter narrows catalog queries. Nil/empty fields are skipped.
type CarFilter struct {
	MinPrice      *float64
	MaxPrice      *float64
	Types         []entity.CarType
	FuelTypes     []string
	Transmissions []string
}

type CarRepository interface {
	Create(ctx context.Context, car *entity.Car) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Car, error)
	CountAll(ctx context.Context) (int64, error)
	FindFiltered(ctx context.Context, filter *CarFilter, limit, offset int) ([]*entity.Car, error)
	CountFiltered(ctx context.Context, filter *CarFilter) (int64, error)
	Search(ctx context.Context, query string, types []entity.CarType) ([]*entity.Car, error)
	CountBookings(ctx context.Context, carID uuid.UUID) (int64, error)
	Update(ctx context.Context, car *entity.Car) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type carRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCarRepository(db database.PgxIface, log *zap.Logger) CarRepository {
	return &carRepository{
		db:  db,
		log: log.With(zap.String("repository", "car")),
	}
}

const carColumns = `id, brand, model, year, description, price_per_day, images, doors, seats, fuel_type, transmission, type, created_at, updated_at`

func scanCar(row pgx.Row) (*entity.Car, error) {
	var car entity.Car
	err := row.Scan(
		&car.ID,
		&car.Brand,
		&car.Model,
		&car.Year,
		&car.Description,
		&car.PricePerDay,
		&car.Images,
		&car.Doors,
		&car.Seats,
		&car.FuelType,
		&car.Transmission,
		&car.Type,
		&car.CreatedAt,
		&car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) Create(ctx context.Context, car *entity.Car) error {
	query := `
		INSERT INTO cars (id, brand, model, year, description, price_per_day, images,
		                  doors, seats, fuel_type, transmission, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		car.ID,
		car.Brand,
		car.Model,
		car.Year,
		car.Description,
		car.PricePerDay,
		car.Images,
		car.Doors,
		car.Seats,
		car.FuelType,
		car.Transmission,
		car.Type,
		car.CreatedAt,
		car.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create car",
			zap.Error(err),
			zap.String("brand", car.Brand),
			zap.String("model", car.Model),
		)
		return fmt.Errorf("create car %s %s: %w", car.Brand, car.Model, err)
	}

	return nil
}

func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find car by ID",
			zap.Error(err),
			zap.String("car_id", id.String()),
		)
		return nil, fmt.Errorf("find car by ID %s: %w", id.String(), err)
	}

	return car, nil
}

func (r *carRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list cars", zap.Error(err))
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	return collectCars(rows)
}

func (r *carRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cars`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count cars", zap.Error(err))
		return 0, fmt.Errorf("count cars: %w", err)
	}

	return count, nil
}

// buildFilterWhere renders the dynamic WHERE clause shared by
// FindFiltered and CountFiltered.
func buildFilterWhere(filter *CarFilter) (string, []any) {
	var conds []string
	var args []any

	if filter != nil {
		if filter.MinPrice != nil {
			args = append(args, *filter.MinPrice)
			conds = append(conds, fmt.Sprintf("price_per_day >= $%d", len(args)))
		}
		if filter.MaxPrice != nil {
			args = append(args, *filter.MaxPrice)
			conds = append(conds, fmt.Sprintf("price_per_day <= $%d", len(args)))
		}
		if len(filter.Types) > 0 {
			args = append(args, filter.Types)
			conds = append(conds, fmt.Sprintf("type = ANY($%d)", len(args)))
		}
		if len(filter.FuelTypes) > 0 {
			args = append(args, filter.FuelTypes)
			conds = append(conds, fmt.Sprintf("fuel_type = ANY($%d)", len(args)))
		}
		if len(filter.Transmissions) > 0 {
			args = append(args, filter.Transmissions)
			conds = append(conds, fmt.Sprintf("transmission = ANY($%d)", len(args)))
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *carRepository) FindFiltered(ctx context.Context, filter *CarFilter, limit, offset int) ([]*entity.Car, error) {
	where, args := buildFilterWhere(filter)

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, offset)
	offsetPos := len(args)

	query := fmt.Sprintf(
		`SELECT %s FROM cars%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		carColumns, where, limitPos, offsetPos,
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to filter cars", zap.Error(err))
		return nil, fmt.Errorf("filter cars: %w", err)
	}
	defer rows.Close()

	return collectCars(rows)
}

func (r *carRepository) CountFiltered(ctx context.Context, filter *CarFilter) (int64, error) {
	where, args := buildFilterWhere(filter)

	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cars`+where, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count filtered cars", zap.Error(err))
		return 0, fmt.Errorf("count filtered cars: %w", err)
	}

	return count, nil
}

func (r *carRepository) Search(ctx context.Context, queryText string, types []entity.CarType) ([]*entity.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE brand ILIKE $1
		   OR model ILIKE $1
		   OR description ILIKE $1
		   OR fuel_type ILIKE $1
		   OR transmission ILIKE $1
		   OR type = ANY($2)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, "%"+queryText+"%", types)
	if err != nil {
		r.log.Error("Failed to search cars",
			zap.Error(err),
			zap.String("query", queryText),
		)
		return nil, fmt.Errorf("search cars %q: %w", queryText, err)
	}
	defer rows.Close()

	return collectCars(rows)
}

func (r *carRepository) CountBookings(ctx context.Context, carID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE car_id = $1`, carID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count car bookings",
			zap.Error(err),
			zap.String("car_id", carID.String()),
		)
		return 0, fmt.Errorf("count bookings for car %s: %w", carID.String(), err)
	}

	return count, nil
}

func (r *carRepository) Update(ctx context.Context, car *entity.Car) error {
	query := `
		UPDATE cars
		SET brand = $2, model = $3, year = $4, description = $5, price_per_day = $6,
		    images = $7, doors = $8, seats = $9, fuel_type = $10, transmission = $11,
		    type = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		car.ID,
		car.Brand,
		car.Model,
		car.Year,
		car.Description,
		car.PricePerDay,
		car.Images,
		car.Doors,
		car.Seats,
		car.FuelType,
		car.Transmission,
		car.Type,
		car.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update car",
			zap.Error(err),
			zap.String("car_id", car.ID.String()),
		)
		return fmt.Errorf("update car %s: %w", car.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("car %s not found", car.ID.String())
	}

	return nil
}

func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete car",
			zap.Error(err),
			zap.String("car_id", id.String()),
		)
		return fmt.Errorf("delete car %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("car %s not found", id.String())
	}

	r.log.Info("Car deleted", zap.String("car_id", id.String()))
	return nil
}

func (r *carRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check car existence",
			zap.Error(err),
			zap.String("car_id", id.String()),
		)
		return false, fmt.Errorf("check car %s exists: %w", id.String(), err)
	}

	return exists, nil
}

func collectCars(rows pgx.Rows) ([]*entity.Car, error) {
	var cars []*entity.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car row: %w", err)
		}
		cars = append(cars, car)
	}
	return cars, nil
}
