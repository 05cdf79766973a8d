package recompute_order

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateTotals(ctx context.Context, order *domain.Order) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	HasCompletedByOrderID(ctx context.Context, orderID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
