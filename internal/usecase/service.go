package usecase

import (
	"time"

	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/pkg/blob"
	"github.com/gio213/rent-and-go/pkg/cache"
	"github.com/gio213/rent-and-go/pkg/mailer"
	"github.com/gio213/rent-and-go/pkg/metrics"
	"github.com/gio213/rent-and-go/pkg/payment"
	"github.com/gio213/rent-and-go/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Car      CarService
	Booking  BookingService
	Checkout CheckoutService
	Webhook  WebhookService
	Reminder ReminderService
}

func NewService(repo *repository.Repository, provider payment.Provider, store blob.Store, mail mailer.Mailer, m *metrics.Metrics, config *utils.Config, log *zap.Logger) *Service {
	seen := cache.NewEventSet(1000)
	window := time.Duration(config.Reminder.WindowHours) * time.Hour

	return &Service{
		Car:      NewCarService(repo, store, config.Blob.Prefix, log),
		Booking:  NewBookingService(repo, log),
		Checkout: NewCheckoutService(repo, provider, m, config.App.BaseURL, config.Stripe.Currency, log),
		Webhook:  NewWebhookService(repo, provider, seen, m, config.Stripe.ReceiptRetryDelay, log),
		Reminder: NewReminderService(repo, mail, m, window, config.Reminder.BatchLimit, log),
	}
}
