package wire

import (
	"github.com/gio213/rent-and-go/internal/adaptor"
	"github.com/gio213/rent-and-go/internal/data/repository"
	"github.com/gio213/rent-and-go/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCar(
	r chi.Router,
	carHandler *adaptor.CarHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Catalog browsing needs no session.
	r.Get("/api/cars", carHandler.ListCars)
	r.Get("/api/cars/search", carHandler.SearchCars)
	r.Get("/api/cars/filter", carHandler.FilterCars)
	r.Get("/api/cars/{id}", carHandler.GetCar)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/cars", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/", carHandler.CreateCar)
		r.Put("/{id}", carHandler.UpdateCar)
		r.Delete("/{id}", carHandler.DeleteCar)
	})
}
