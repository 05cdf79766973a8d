package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	calendarRepo "github.com/signcraft/scheduling-service/internal/infra/storage/calendar"
)

// UseCase use case для получения доступных слотов за период
type UseCase struct {
	bookingRepo  BookingRepository
	calendarRepo CalendarRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calendarRepo CalendarRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: shop=%d, period=%s to %s, emergency=%v",
		req.ShopID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.EmergencyRequested)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	from := truncateToDay(req.From)
	to := truncateToDay(req.To)

	// 2. Получаем календарную политику магазина
	policy, err := uc.calendarRepo.GetPolicyByShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
			uc.logger.Warn("GetAvailableSlots: policy not found for shop=%d", req.ShopID)
			return nil, ErrPolicyNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get policy for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}

	// 3. Blackout-даты периода
	blackouts, err := uc.calendarRepo.ListBlackoutDates(ctx, domain.BlackoutDatesFilter{
		ShopID:    req.ShopID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list blackouts for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to list blackouts: %v", ErrInternal, err)
	}

	blackoutByDate := make(map[string]bool, len(blackouts))
	for _, b := range blackouts {
		blackoutByDate[b.Date.Format(domain.DateFormat)] = true
	}

	// 4. Активные бронирования периода одним запросом
	bookings, err := uc.bookingRepo.GetByShopWithFilter(ctx, domain.BookingsFilter{
		ShopID:    req.ShopID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	bookingsByDate := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		key := b.BookingDate.Format(domain.DateFormat)
		bookingsByDate[key] = append(bookingsByDate[key], b)
	}

	// 5. Считаем слоты по каждому дню периода
	resp := &Response{
		ShopID: req.ShopID,
		Days:   make([]DaySlots, 0),
	}

	totalSlots := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateFormat)

		slots, err := computeDaySlots(policy, d, now, bookingsByDate[key], blackoutByDate[key], req.EmergencyRequested)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to compute slots for shop=%d, date=%s: %v", req.ShopID, key, err)
			return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
		}

		totalSlots += len(slots)
		resp.Days = append(resp.Days, DaySlots{Date: d, Slots: slots})
	}

	uc.logger.Info("GetAvailableSlots: shop=%d, %d slots over %d days", req.ShopID, totalSlots, len(resp.Days))
	return resp, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
