package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gio213/rent-and-go/internal/dto/request"
	"github.com/gio213/rent-and-go/internal/usecase"
	"github.com/gio213/rent-and-go/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	booking  usecase.BookingService
	checkout usecase.CheckoutService
	log      *zap.Logger
}

func NewBookingHandler(booking usecase.BookingService, checkout usecase.CheckoutService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		booking:  booking,
		checkout: checkout,
		log:      log.With(zap.String("handler", "booking")),
	}
}

// CreateCheckout handles POST /api/checkout (protected)
func (h *BookingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.checkout.CreateCheckout(r.Context(), &req)
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	limit := utils.ParseInt(query.Get("limit"), 10)

	bookings, err := h.booking.GetUserBookings(r.Context(), userID, page, limit)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/admin/bookings/{id} (admin only)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.booking.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// handleCheckoutError maps checkout error codes to HTTP statuses; the
// code rides in the errors field so the client can branch on it.
func (h *BookingHandler) handleCheckoutError(w http.ResponseWriter, err error) {
	var cerr *usecase.CheckoutError
	if errors.As(err, &cerr) {
		h.log.Warn("Checkout failed",
			zap.String("code", cerr.Code),
			zap.String("message", cerr.Message),
		)

		switch cerr.Code {
		case usecase.CheckoutCodeNotAuthenticated:
			utils.ResponseUnauthorized(w, cerr.Message)
		case usecase.CheckoutCodeInvalidPrice:
			utils.ResponseBadRequest(w, cerr.Message, map[string]string{"code": cerr.Code})
		default:
			utils.ResponseJSON(w, http.StatusInternalServerError, false, cerr.Message, nil, map[string]string{"code": cerr.Code})
		}
		return
	}

	h.handleServiceError(w, err, "create checkout")
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
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
