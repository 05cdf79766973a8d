package request_emergency

import (
	"context"
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/internal/integrations/quoteservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByShopWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CalendarRepository интерфейс репозитория календарных политик и blackout-дат
type CalendarRepository interface {
	GetPolicyByShop(ctx context.Context, shopID int64) (*domain.CalendarPolicy, error)
	ListBlackoutDates(ctx context.Context, filter domain.BlackoutDatesFilter) ([]*domain.BlackoutDate, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// QuoteServiceClient интерфейс клиента для QuoteService
type QuoteServiceClient interface {
	GetQuote(ctx context.Context, quoteID int64) (*quoteservice.Quote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
