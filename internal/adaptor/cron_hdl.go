package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gio213/rent-and-go/internal/dto/request"
	"github.com/gio213/rent-and-go/internal/usecase"
	"github.com/gio213/rent-and-go/pkg/utils"

	"go.uber.org/zap"
)

// CronHandler serves the scheduler-invoked endpoints, both guarded by
// the shared-secret middleware.
type CronHandler struct {
	reminder usecase.ReminderService
	booking  usecase.BookingService
	log      *zap.Logger
}

func NewCronHandler(reminder usecase.ReminderService, booking usecase.BookingService, log *zap.Logger) *CronHandler {
	return &CronHandler{
		reminder: reminder,
		booking:  booking,
		log:      log.With(zap.String("handler", "cron")),
	}
}

// RunReminders handles GET /api/reminders/return-car. The response is
// the bare sweep summary the scheduler dashboard expects, not the JSON
// envelope.
func (h *CronHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminder.Run(r.Context())
	if err != nil {
		h.log.Error("Reminder sweep failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// UpdateInvoice handles PUT /api/update-invoice
func (h *CronHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	updated, err := h.booking.UpdateInvoice(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.ResponseNotFound(w, err.Error())
			return
		}
		h.log.Error("Failed to update invoice", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int64{"updated": updated})
}
