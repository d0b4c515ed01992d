package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gio213/rent-and-go/internal/data/entity"
	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/internal/dto/request"
	"github.com/gio213/rent-and-go/internal/dto/response"
	"github.com/gio213/rent-and-go/pkg/blob"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageUpload is one multipart image file destined for the blob store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CarService interface {
	CreateCar(ctx context.Context, req *request.CreateCarRequest, images []ImageUpload) (*response.CarResponse, error)
	GetCar(ctx context.Context, id uuid.UUID) (*response.CarDetailResponse, error)
	ListCars(ctx context.Context, page, limit int) (*response.PaginatedResponse[response.CarResponse], error)
	FilterCars(ctx context.Context, req *request.FilterCarsRequest) (*response.FilteredCarsResponse, error)
	SearchCars(ctx context.Context, query string) ([]response.CarResponse, error)
	UpdateCar(ctx context.Context, id uuid.UUID, req *request.UpdateCarRequest, images []ImageUpload) (*response.CarResponse, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error
}

type carService struct {
	repo   *repository.Repository
	store  blob.Store
	prefix string
	log    *zap.Logger
}

func NewCarService(repo *repository.Repository, store blob.Store, prefix string, log *zap.Logger) CarService {
	return &carService{
		repo:   repo,
		store:  store,
		prefix: prefix,
		log:    log.With(zap.String("service", "car")),
	}
}

func (s *carService) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	var urls []string
	for _, img := range images {
		path := fmt.Sprintf("%s/cars/%s", s.prefix, img.Filename)
		url, err := s.store.Put(ctx, path, img.Data, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload image %s: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *carService) CreateCar(ctx context.Context, req *request.CreateCarRequest, images []ImageUpload) (*response.CarResponse, error) {
	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	car := &entity.Car{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Description:  req.Description,
		PricePerDay:  req.PricePerDay,
		Images:       append(req.Images, uploaded...),
		Doors:        req.Doors,
		Seats:        req.Seats,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Type:         entity.CarType(req.Type),
	}

	if err := s.repo.Car.Create(ctx, car); err != nil {
		return nil, err
	}

	s.log.Info("Car created",
		zap.String("car_id", car.ID.String()),
		zap.String("brand", car.Brand),
		zap.String("model", car.Model),
	)

	resp := response.CarToResponse(car)
	return &resp, nil
}

func (s *carService) GetCar(ctx context.Context, id uuid.UUID) (*response.CarDetailResponse, error) {
	car, err := s.repo.Car.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, fmt.Errorf("car %s not found", id.String())
	}

	bookings, err := s.repo.Car.CountBookings(ctx, id)
	if err != nil {
		return nil, err
	}

	return &response.CarDetailResponse{
		CarResponse:  response.CarToResponse(car),
		BookingCount: bookings,
	}, nil
}

func (s *carService) ListCars(ctx context.Context, page, limit int) (*response.PaginatedResponse[response.CarResponse], error) {
	offset := (page - 1) * limit

	cars, err := s.repo.Car.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Car.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]response.CarResponse, 0, len(cars))
	for _, car := range cars {
		items = append(items, response.CarToResponse(car))
	}

	return response.NewPaginatedResponse(items, page, limit, total), nil
}

func (s *carService) FilterCars(ctx context.Context, req *request.FilterCarsRequest) (*response.FilteredCarsResponse, error) {
	filter := &repository.CarFilter{
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		FuelTypes:     req.FuelTypes,
		Transmissions: req.Transmissions,
	}
	for _, t := range req.Types {
		filter.Types = append(filter.Types, entity.CarType(t))
	}

	offset := (req.Page - 1) * req.Limit

	cars, err := s.repo.Car.FindFiltered(ctx, filter, req.Limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Car.CountFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]response.CarResponse, 0, len(cars))
	for _, car := range cars {
		items = append(items, response.CarToResponse(car))
	}

	return &response.FilteredCarsResponse{
		Data:    items,
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   total,
		HasMore: int64(offset+len(items)) < total,
	}, nil
}

// SearchCars matches free text against brand, model, description, fuel
// type and transmission; a query that looks like a car type also
// matches that type exactly.
func (s *carService) SearchCars(ctx context.Context, query string) ([]response.CarResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []response.CarResponse{}, nil
	}

	var types []entity.CarType
	upper := strings.ToUpper(query)
	for _, t := range []entity.CarType{
		entity.CarTypeSedan, entity.CarTypeSUV, entity.CarTypeTruck, entity.CarTypeCoupe,
		entity.CarTypeConvertible, entity.CarTypeHatchback, entity.CarTypeMinivan, entity.CarTypeWagon,
	} {
		if strings.Contains(string(t), upper) {
			types = append(types, t)
		}
	}

	cars, err := s.repo.Car.Search(ctx, query, types)
	if err != nil {
		return nil, err
	}

	items := make([]response.CarResponse, 0, len(cars))
	for _, car := range cars {
		items = append(items, response.CarToResponse(car))
	}
	return items, nil
}

func (s *carService) UpdateCar(ctx context.Context, id uuid.UUID, req *request.UpdateCarRequest, images []ImageUpload) (*response.CarResponse, error) {
	car, err := s.repo.Car.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, fmt.Errorf("car %s not found", id.String())
	}

	if req.Brand != nil {
		car.Brand = *req.Brand
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.Description != nil {
		car.Description = req.Description
	}
	if req.PricePerDay != nil {
		car.PricePerDay = *req.PricePerDay
	}
	if req.Doors != nil {
		car.Doors = *req.Doors
	}
	if req.Seats != nil {
		car.Seats = *req.Seats
	}
	if req.FuelType != nil {
		car.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		car.Transmission = *req.Transmission
	}
	if req.Type != nil {
		car.Type = entity.CarType(*req.Type)
	}
	if req.Images != nil {
		car.Images = req.Images
	}

	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}
	car.Images = append(car.Images, uploaded...)
	car.UpdatedAt = time.Now().UTC()

	if err := s.repo.Car.Update(ctx, car); err != nil {
		return nil, err
	}

	s.log.Info("Car updated", zap.String("car_id", car.ID.String()))

	resp := response.CarToResponse(car)
	return &resp, nil
}

func (s *carService) DeleteCar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Car.Delete(ctx, id)
}
