package calendar

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/domain"
)

// CalendarRepository интерфейс репозитория календарных политик и blackout-дат
type CalendarRepository interface {
	GetPolicyByShop(ctx context.Context, shopID int64) (*domain.CalendarPolicy, error)
	ReplacePolicy(ctx context.Context, policy *domain.CalendarPolicy) (*domain.CalendarPolicy, error)
	ListBlackoutDates(ctx context.Context, filter domain.BlackoutDatesFilter) ([]*domain.BlackoutDate, error)
	AddBlackoutDate(ctx context.Context, blackout *domain.BlackoutDate) (*domain.BlackoutDate, error)
	RemoveBlackoutDate(ctx context.Context, shopID, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
// Используется для подсчёта занятости в сводке по дням
type BookingRepository interface {
	GetByShopWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
