package get_available_slots

import (
	"context"
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByShopWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CalendarRepository интерфейс репозитория календарных политик и blackout-дат
type CalendarRepository interface {
	GetPolicyByShop(ctx context.Context, shopID int64) (*domain.CalendarPolicy, error)
	ListBlackoutDates(ctx context.Context, filter domain.BlackoutDatesFilter) ([]*domain.BlackoutDate, error)
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
