package repository

import (
	"github.com/gio213/rent-and-go/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Car     CarRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Car:     NewCarRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
