package wire

import (
	"net/http"

	"github.com/gio213/rent-and-go/internal/adaptor"
	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/internal/usecase"
	"github.com/gio213/rent-and-go/pkg/blob"
	"github.com/gio213/rent-and-go/pkg/mailer"
	"github.com/gio213/rent-and-go/pkg/metrics"
	"github.com/gio213/rent-and-go/pkg/middleware"
	"github.com/gio213/rent-and-go/pkg/payment"
	"github.com/gio213/rent-and-go/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring connects repositories, external providers, services and
// handlers into one router.
func Wiring(repo *repository.Repository, provider payment.Provider, store blob.Store, mail mailer.Mailer, config *utils.Config, logger *zap.Logger) *App {
	m := metrics.NewMetrics()

	service := usecase.NewService(repo, provider, store, mail, m, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, m, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	m *metrics.Metrics,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(m))

	wireCar(r, handler.Car, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireWebhook(r, handler.Webhook)
	wireCron(r, handler.Cron, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	return r
}
