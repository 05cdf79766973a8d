package request_emergency

import (
	"context"
	"errors"
	"fmt"

	"github.com/signcraft/scheduling-service/internal/domain"
	calendarRepo "github.com/signcraft/scheduling-service/internal/infra/storage/calendar"
	quoteClient "github.com/signcraft/scheduling-service/internal/integrations/quoteservice"
	"github.com/signcraft/scheduling-service/pkg/types"
)

// UseCase use case для аварийного overflow-бронирования
//
// Аварийный пул независим от регулярного и допускается только после
// его исчерпания. Наценка urgent_fee_pct замораживается на бронировании
// в момент создания.
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

// Execute выполняет use case аварийного бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestEmergency: user=%d, shop=%d, quote=%d, date=%s, time=%s",
		req.UserID, req.ShopID, req.QuoteID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestEmergency: validation failed: %v", err)
		return nil, err
	}

	// 2. Клиент оформляет бронирование только на себя
	if req.UserRole != RoleStaff && req.UserID != req.CustomerID {
		uc.logger.Warn("RequestEmergency: user=%d tried to book for customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	// 3. Получаем смету до транзакции
	quote, err := uc.quoteClient.GetQuote(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, quoteClient.ErrQuoteNotFound) {
			uc.logger.Warn("RequestEmergency: quote id=%d not found", req.QuoteID)
			return nil, ErrQuoteNotFound
		}
		uc.logger.Error("RequestEmergency: failed to get quote id=%d: %v", req.QuoteID, err)
		return nil, fmt.Errorf("%w: failed to get quote: %w", ErrInternal, err)
	}

	if quote.CustomerID != req.CustomerID {
		uc.logger.Warn("RequestEmergency: quote id=%d belongs to customer=%d, not %d",
			req.QuoteID, quote.CustomerID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var booking *domain.Booking
	var order *domain.Order

	// 4. Допуск и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		policy, err := uc.calendarRepo.GetPolicyByShop(txCtx, req.ShopID)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
				uc.logger.Warn("RequestEmergency: policy not found for shop=%d", req.ShopID)
				return ErrPolicyNotFound
			}
			uc.logger.Error("RequestEmergency: failed to get policy for shop=%d: %v", req.ShopID, err)
			return fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
		}

		// 4.1. Дата: не в прошлом, рабочий день, не blackout
		if isDateInPast(req.Date, now) {
			uc.logger.Warn("RequestEmergency: date %s is in the past", req.Date.Format(domain.DateFormat))
			return ErrDateInPast
		}

		if !policy.IsWorkingDay(req.Date.Weekday()) {
			uc.logger.Warn("RequestEmergency: shop=%d is closed on %s", req.ShopID, req.Date.Format(domain.DateFormat))
			return ErrShopClosed
		}

		blackouts, err := uc.calendarRepo.ListBlackoutDates(txCtx, domain.BlackoutDatesFilter{
			ShopID:    req.ShopID,
			StartDate: &req.Date,
			EndDate:   &req.Date,
		})
		if err != nil {
			uc.logger.Error("RequestEmergency: failed to list blackouts for shop=%d: %v", req.ShopID, err)
			return fmt.Errorf("%w: failed to list blackouts: %w", ErrInternal, err)
		}
		if len(blackouts) > 0 {
			uc.logger.Warn("RequestEmergency: date %s is blacked out for shop=%d",
				req.Date.Format(domain.DateFormat), req.ShopID)
			return ErrBlackoutDate
		}

		grid, err := slotGrid(policy)
		if err != nil {
			uc.logger.Error("RequestEmergency: failed to build slot grid: %v", err)
			return fmt.Errorf("%w: failed to build slot grid: %w", ErrInternal, err)
		}

		// 4.2. Аварийный слот выбирается из полной сетки дня
		onGrid := false
		for _, s := range grid {
			if s == req.StartTime {
				onGrid = true
				break
			}
		}
		if !onGrid {
			uc.logger.Warn("RequestEmergency: time %s does not match grid for shop=%d", req.StartTime, req.ShopID)
			return ErrInvalidSlot
		}

		// 4.3. Активные бронирования дня с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByShopWithFilter(txCtx, domain.BookingsFilter{
			ShopID:    req.ShopID,
			StartDate: &req.Date,
			EndDate:   &req.Date,
		})
		if err != nil {
			uc.logger.Error("RequestEmergency: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		var regular, emergency []*domain.Booking
		for _, b := range bookings {
			if !b.IsActive() {
				continue
			}
			if b.IsEmergency {
				emergency = append(emergency, b)
			} else {
				regular = append(regular, b)
			}
		}

		// 4.4. Overflow допускается только при исчерпанном регулярном пуле
		free, err := regularSlotFree(policy, grid, regular)
		if err != nil {
			return err
		}
		if free {
			uc.logger.Warn("RequestEmergency: regular capacity still available for shop=%d, date=%s",
				req.ShopID, req.Date.Format(domain.DateFormat))
			return ErrRegularCapacityAvailable
		}

		// 4.5. Вместимость аварийного пула
		if len(emergency) >= policy.EmergencySlotsPerDay {
			uc.logger.Warn("RequestEmergency: emergency pool exhausted for shop=%d, date=%s (%d/%d)",
				req.ShopID, req.Date.Format(domain.DateFormat), len(emergency), policy.EmergencySlotsPerDay)
			return ErrEmergencyCapacityExhausted
		}

		// 4.6. Пересечения внутри аварийного пула
		slotEnd, err := req.StartTime.AddMinutes(policy.SlotDurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to compute slot end: %w", ErrInternal, err)
		}
		for _, b := range emergency {
			if b.Overlaps(req.StartTime, slotEnd) {
				uc.logger.Warn("RequestEmergency: emergency slot %s already taken for shop=%d, date=%s",
					req.StartTime, req.ShopID, req.Date.Format(domain.DateFormat))
				return ErrSlotNoLongerAvailable
			}
		}

		// 4.7. Создаем бронирование с замороженной наценкой
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ShopID:          req.ShopID,
			QuoteID:         req.QuoteID,
			CustomerID:      req.CustomerID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: policy.SlotDurationMinutes,
			Status:          domain.StatusPending,
			IsEmergency:     true,
			UrgentFeePct:    policy.UrgentFeePct,
			PolicyVersion:   policy.Version,
		})
		if err != nil {
			uc.logger.Error("RequestEmergency: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 4.8. Заказ с аварийной наценкой
		newOrder := &domain.Order{
			BookingID:    created.ID,
			QuoteID:      quote.ID,
			BaseSubtotal: quote.BaseSubtotal,
			UrgentFeePct: policy.UrgentFeePct,
			TaxRate:      quote.TaxRate,
			DepositPct:   policy.DepositPct,
		}
		newOrder.Apply(domain.ComputeOrderTotals(quote.BaseSubtotal, policy.UrgentFeePct, quote.TaxRate, policy.DepositPct, true))

		createdOrder, err := uc.orderRepo.Create(txCtx, newOrder)
		if err != nil {
			uc.logger.Error("RequestEmergency: failed to create order: %v", err)
			return fmt.Errorf("%w: failed to create order: %w", ErrInternal, err)
		}

		booking = created
		order = createdOrder
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RequestEmergency: emergency booking id=%d created for shop=%d, date=%s, time=%s, fee=%.2f%%",
		booking.ID, req.ShopID, req.Date.Format(domain.DateFormat), req.StartTime, booking.UrgentFeePct)

	return buildResponse(booking, order), nil
}

// regularSlotFree возвращает true, если в регулярном пуле остался
// хотя бы один свободный слот-кандидат
func regularSlotFree(policy *domain.CalendarPolicy, grid []types.TimeString, regular []*domain.Booking) (bool, error) {
	if len(regular) >= policy.RegularSlotsPerDay {
		return false, nil
	}

	candidates := grid
	if len(candidates) > policy.RegularSlotsPerDay {
		candidates = candidates[:policy.RegularSlotsPerDay]
	}

	for _, start := range candidates {
		end, err := start.AddMinutes(policy.SlotDurationMinutes)
		if err != nil {
			return false, fmt.Errorf("%w: failed to compute slot end: %w", ErrInternal, err)
		}

		taken := false
		for _, b := range regular {
			if b.Overlaps(start, end) {
				taken = true
				break
			}
		}
		if !taken {
			return true, nil
		}
	}

	return false, nil
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
		UrgentFeePct:    b.UrgentFeePct,
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
