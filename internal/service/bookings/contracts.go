package bookings

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByShopWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Order, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]*domain.Payment, error)
	SumCompletedByOrderID(ctx context.Context, orderID int64) (float64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
