package wire

import (
	"github.com/gio213/rent-and-go/internal/adaptor"
	"github.com/gio213/rent-and-go/pkg/middleware"
	"github.com/gio213/rent-and-go/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCron(
	r chi.Router,
	cronHandler *adaptor.CronHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// Scheduler-invoked endpoints behind the x-cron-secret check.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CronSecret(config.Cron.Secret, log))

		// GET /api/reminders/return-car - Return reminder sweep
		r.Get("/api/reminders/return-car", cronHandler.RunReminders)

		// PUT /api/update-invoice - Attach receipt URL by payment intent
		r.Put("/api/update-invoice", cronHandler.UpdateInvoice)
	})
}
