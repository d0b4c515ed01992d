package adaptor

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gio213/rent-and-go/internal/dto/request"
	"github.com/gio213/rent-and-go/internal/usecase"
	"github.com/gio213/rent-and-go/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCarUploadSize = 32 << 20

type CarHandler struct {
	service usecase.CarService
	log     *zap.Logger
}

func NewCarHandler(service usecase.CarService, log *zap.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log.With(zap.String("handler", "car")),
	}
}

// ListCars handles GET /api/cars (public)
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	limit := utils.ParseInt(query.Get("limit"), 12)

	cars, err := h.service.ListCars(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(w, err, "list cars")
		return
	}

	utils.ResponseSuccess(w, "success", cars)
}

// GetCar handles GET /api/cars/{id} (public)
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid car ID", nil)
		return
	}

	car, err := h.service.GetCar(r.Context(), carID)
	if err != nil {
		h.handleServiceError(w, err, "get car")
		return
	}

	utils.ResponseSuccess(w, "success", car)
}

// SearchCars handles GET /api/cars/search?q= (public)
func (h *CarHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.SearchCars(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.handleServiceError(w, err, "search cars")
		return
	}

	utils.ResponseSuccess(w, "success", cars)
}

// FilterCars handles GET /api/cars/filter (public). List params arrive
// comma-separated: ?types=SEDAN,SUV&fuelTypes=petrol.
func (h *CarHandler) FilterCars(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.FilterCarsRequest{
		Types:         splitParam(query.Get("types")),
		FuelTypes:     splitParam(query.Get("fuelTypes")),
		Transmissions: splitParam(query.Get("transmissions")),
		Page:          utils.ParseInt(query.Get("page"), 1),
		Limit:         utils.ParseInt(query.Get("limit"), 12),
	}
	if v, ok := utils.ParseFloat(query.Get("minPrice")); ok {
		req.MinPrice = &v
	}
	if v, ok := utils.ParseFloat(query.Get("maxPrice")); ok {
		req.MaxPrice = &v
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	cars, err := h.service.FilterCars(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "filter cars")
		return
	}

	utils.ResponseSuccess(w, "success", cars)
}

// ==================== ADMIN METHODS ====================

// CreateCar handles POST /api/admin/cars (admin only, multipart form
// with image files under "images")
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCarUploadSize); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	price, _ := utils.ParseFloat(r.FormValue("price_per_day"))
	req := request.CreateCarRequest{
		Brand:        r.FormValue("brand"),
		Model:        r.FormValue("model"),
		Year:         utils.ParseInt(r.FormValue("year"), 0),
		PricePerDay:  price,
		Doors:        utils.ParseInt(r.FormValue("doors"), 0),
		Seats:        utils.ParseInt(r.FormValue("seats"), 0),
		FuelType:     r.FormValue("fuel_type"),
		Transmission: r.FormValue("transmission"),
		Type:         r.FormValue("type"),
	}
	if desc := r.FormValue("description"); desc != "" {
		req.Description = &desc
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	images, err := h.readImages(r)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	car, err := h.service.CreateCar(r.Context(), &req, images)
	if err != nil {
		h.handleServiceError(w, err, "create car")
		return
	}

	utils.ResponseCreated(w, "success", car)
}

// UpdateCar handles PUT /api/admin/cars/{id} (admin only, JSON body;
// replacing images means sending the full URL list)
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid car ID", nil)
		return
	}

	var req request.UpdateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	car, err := h.service.UpdateCar(r.Context(), carID, &req, nil)
	if err != nil {
		h.handleServiceError(w, err, "update car")
		return
	}

	utils.ResponseSuccess(w, "success", car)
}

// DeleteCar handles DELETE /api/admin/cars/{id} (admin only)
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	carID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid car ID", nil)
		return
	}

	if err := h.service.DeleteCar(r.Context(), carID); err != nil {
		h.handleServiceError(w, err, "delete car")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

func (h *CarHandler) readImages(r *http.Request) ([]usecase.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var images []usecase.ImageUpload
	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		images = append(images, usecase.ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return images, nil
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}

	var parts []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func (h *CarHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
