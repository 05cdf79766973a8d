package reserve_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/signcraft/scheduling-service/internal/domain"
	calendarRepo "github.com/signcraft/scheduling-service/internal/infra/storage/calendar"
	quoteClient "github.com/signcraft/scheduling-service/internal/integrations/quoteservice"
)

// UseCase use case для резервирования регулярного слота
type UseCase struct {
	bookingRepo  BookingRepository
	calendarRepo CalendarRepository
	orderRepo    OrderRepository
	quoteClient  QuoteServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	calendarRepo CalendarRepository,
	orderRepo OrderRepository,
	quoteClient QuoteServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		orderRepo:    orderRepo,
		quoteClient:  quoteClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case резервирования слота
// Проверка занятости и вставка бронирования выполняются атомарно
// в сериализуемой транзакции: из N параллельных запросов на последний
// свободный слот ровно один завершается успехом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: user=%d, shop=%d, quote=%d, date=%s, time=%s",
		req.UserID, req.ShopID, req.QuoteID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Клиент оформляет бронирование только на себя
	if req.UserRole != RoleStaff && req.UserID != req.CustomerID {
		uc.logger.Warn("ReserveSlot: user=%d tried to book for customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	// 3. Получаем смету до транзакции - внешний вызов внутри
	// сериализуемой транзакции держал бы блокировки на время HTTP запроса
	quote, err := uc.quoteClient.GetQuote(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, quoteClient.ErrQuoteNotFound) {
			uc.logger.Warn("ReserveSlot: quote id=%d not found", req.QuoteID)
			return nil, ErrQuoteNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get quote id=%d: %v", req.QuoteID, err)
		return nil, fmt.Errorf("%w: failed to get quote: %w", ErrInternal, err)
	}

	if quote.CustomerID != req.CustomerID {
		uc.logger.Warn("ReserveSlot: quote id=%d belongs to customer=%d, not %d",
			req.QuoteID, quote.CustomerID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var booking *domain.Booking
	var order *domain.Order

	// 4. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		policy, err := uc.calendarRepo.GetPolicyByShop(txCtx, req.ShopID)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
				uc.logger.Warn("ReserveSlot: policy not found for shop=%d", req.ShopID)
				return ErrPolicyNotFound
			}
			uc.logger.Error("ReserveSlot: failed to get policy for shop=%d: %v", req.ShopID, err)
			return fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
		}

		// 4.1. Дата: не в прошлом, рабочий день, не blackout
		if isDateInPast(req.Date, now) {
			uc.logger.Warn("ReserveSlot: date %s is in the past", req.Date.Format(domain.DateFormat))
			return ErrDateInPast
		}

		if !policy.IsWorkingDay(req.Date.Weekday()) {
			uc.logger.Warn("ReserveSlot: shop=%d is closed on %s", req.ShopID, req.Date.Format(domain.DateFormat))
			return ErrShopClosed
		}

		blackouts, err := uc.calendarRepo.ListBlackoutDates(txCtx, domain.BlackoutDatesFilter{
			ShopID:    req.ShopID,
			StartDate: &req.Date,
			EndDate:   &req.Date,
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to list blackouts for shop=%d: %v", req.ShopID, err)
			return fmt.Errorf("%w: failed to list blackouts: %w", ErrInternal, err)
		}
		if len(blackouts) > 0 {
			uc.logger.Warn("ReserveSlot: date %s is blacked out for shop=%d", req.Date.Format(domain.DateFormat), req.ShopID)
			return ErrBlackoutDate
		}

		// 4.2. Время должно попадать в сетку кандидатов
		if err := validateSlotInGrid(policy, req.StartTime); err != nil {
			uc.logger.Warn("ReserveSlot: time %s does not match grid for shop=%d", req.StartTime, req.ShopID)
			return err
		}

		// 4.3. Активные бронирования дня с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByShopWithFilter(txCtx, domain.BookingsFilter{
			ShopID:    req.ShopID,
			StartDate: &req.Date,
			EndDate:   &req.Date,
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 4.4. Проверяем регулярный пул: вместимость и пересечения
		regularCount := 0
		for _, b := range bookings {
			if !b.IsActive() || b.IsEmergency {
				continue
			}
			regularCount++

			slotEnd, err := req.StartTime.AddMinutes(policy.SlotDurationMinutes)
			if err != nil {
				return fmt.Errorf("%w: failed to compute slot end: %w", ErrInternal, err)
			}
			if b.Overlaps(req.StartTime, slotEnd) {
				uc.logger.Warn("ReserveSlot: slot %s already taken for shop=%d, date=%s",
					req.StartTime, req.ShopID, req.Date.Format(domain.DateFormat))
				return ErrSlotNoLongerAvailable
			}
		}

		if regularCount >= policy.RegularSlotsPerDay {
			uc.logger.Warn("ReserveSlot: regular pool exhausted for shop=%d, date=%s (%d/%d)",
				req.ShopID, req.Date.Format(domain.DateFormat), regularCount, policy.RegularSlotsPerDay)
			return ErrSlotNoLongerAvailable
		}

		// 4.5. Создаем бронирование в статусе PENDING
		// Версия политики замораживается на момент создания
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ShopID:          req.ShopID,
			QuoteID:         req.QuoteID,
			CustomerID:      req.CustomerID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: policy.SlotDurationMinutes,
			Status:          domain.StatusPending,
			IsEmergency:     false,
			UrgentFeePct:    0,
			PolicyVersion:   policy.Version,
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 4.6. Создаем финансовую проекцию заказа
		newOrder := &domain.Order{
			BookingID:    created.ID,
			QuoteID:      quote.ID,
			BaseSubtotal: quote.BaseSubtotal,
			UrgentFeePct: 0,
			TaxRate:      quote.TaxRate,
			DepositPct:   policy.DepositPct,
		}
		newOrder.Apply(domain.ComputeOrderTotals(quote.BaseSubtotal, 0, quote.TaxRate, policy.DepositPct, false))

		createdOrder, err := uc.orderRepo.Create(txCtx, newOrder)
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to create order: %v", err)
			return fmt.Errorf("%w: failed to create order: %w", ErrInternal, err)
		}

		booking = created
		order = createdOrder
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReserveSlot: booking id=%d created for shop=%d, date=%s, time=%s",
		booking.ID, req.ShopID, req.Date.Format(domain.DateFormat), req.StartTime)

	return buildResponse(booking, order), nil
}

func buildResponse(b *domain.Booking, o *domain.Order) *Response {
	return &Response{
		ID:              b.ID,
		ShopID:          b.ShopID,
		QuoteID:         b.QuoteID,
		CustomerID:      b.CustomerID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		IsEmergency:     b.IsEmergency,
		PolicyVersion:   b.PolicyVersion,
		Order: OrderSummary{
			ID:            o.ID,
			BaseSubtotal:  o.BaseSubtotal,
			UrgentFeePct:  o.UrgentFeePct,
			TaxRate:       o.TaxRate,
			TotalSubtotal: o.TotalSubtotal,
			TaxAmount:     o.TaxAmount,
			TotalAmount:   o.TotalAmount,
			DepositPct:    o.DepositPct,
			DepositAmount: o.DepositAmount,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
