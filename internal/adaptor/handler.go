package adaptor

import (
	"github.com/gio213/rent-and-go/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Car     *CarHandler
	Booking *BookingHandler
	Webhook *WebhookHandler
	Cron    *CronHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Car:     NewCarHandler(service.Car, log),
		Booking: NewBookingHandler(service.Booking, service.Checkout, log),
		Webhook: NewWebhookHandler(service.Webhook, log),
		Cron:    NewCronHandler(service.Reminder, service.Booking, log),
	}
}
