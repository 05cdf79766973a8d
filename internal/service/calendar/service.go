package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	calendarRepo "github.com/signcraft/scheduling-service/internal/infra/storage/calendar"
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

// maxSummaryRangeDays ограничивает период сводки занятости
const maxSummaryRangeDays = 92

// Service сервис для работы с календарной политикой и blackout-датами
type Service struct {
	calendarRepo CalendarRepository
	bookingRepo  BookingRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		bookingRepo:  bookingRepo,
		logger:       logger,
	}
}

// GetPolicy получает календарную политику магазина
// Публичный метод - доступен всем
func (s *Service) GetPolicy(ctx context.Context, shopID int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetPolicy: fetching policy for shop=%d", shopID)

	policy, err := s.getPolicy(ctx, shopID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPolicy(policy), nil
}

// ReplacePolicy полностью заменяет календарную политику магазина
// Замена атомарна: при некорректной конфигурации прежняя политика
// остаётся без изменений. Версия политики увеличивается при каждой замене.
// Существующие бронирования не пересчитываются - они заморозили свои
// значения при создании.
func (s *Service) ReplacePolicy(ctx context.Context, req *models.ReplacePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("ReplacePolicy: replacing policy for shop=%d by user=%d", req.ShopID, req.Actor.UserID)

	if !req.Actor.IsStaff() {
		s.logger.Warn("ReplacePolicy: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	policy := req.ToDomainPolicy()
	if err := validatePolicy(policy); err != nil {
		s.logger.Warn("ReplacePolicy: validation failed for shop=%d: %v", req.ShopID, err)
		return nil, err
	}

	updated, err := s.calendarRepo.ReplacePolicy(ctx, policy)
	if err != nil {
		s.logger.Error("ReplacePolicy: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ReplacePolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplacePolicy: shop=%d policy replaced, version=%d", req.ShopID, updated.Version)
	return models.FromDomainPolicy(updated), nil
}

// ListBlackoutDates получает blackout-даты магазина за период
// Публичный метод - доступен всем
func (s *Service) ListBlackoutDates(ctx context.Context, req *models.ListBlackoutsRequest) (*models.BlackoutListResponse, error) {
	s.logger.Info("ListBlackoutDates: fetching blackouts for shop=%d", req.ShopID)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	blackouts, err := s.calendarRepo.ListBlackoutDates(ctx, domain.BlackoutDatesFilter{
		ShopID:    req.ShopID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		s.logger.Error("ListBlackoutDates: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ListBlackoutDates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlackoutList(blackouts), nil
}

// AddBlackoutDate добавляет blackout-дату магазина
// Дата уникальна в пределах магазина, повторное добавление возвращает конфликт
func (s *Service) AddBlackoutDate(ctx context.Context, req *models.AddBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("AddBlackoutDate: adding blackout for shop=%d, date=%s by user=%d", req.ShopID, req.Date, req.Actor.UserID)

	if !req.Actor.IsStaff() {
		s.logger.Warn("AddBlackoutDate: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("AddBlackoutDate: invalid date=%s for shop=%d", req.Date, req.ShopID)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason too long", ErrInvalidInput)
	}

	blackout, err := s.calendarRepo.AddBlackoutDate(ctx, &domain.BlackoutDate{
		ShopID: req.ShopID,
		Date:   date,
		Reason: req.Reason,
	})
	if err != nil {
		if errors.Is(err, calendarRepo.ErrBlackoutExists) {
			s.logger.Warn("AddBlackoutDate: blackout already exists for shop=%d, date=%s", req.ShopID, req.Date)
			return nil, ErrBlackoutExists
		}
		s.logger.Error("AddBlackoutDate: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: AddBlackoutDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddBlackoutDate: blackout id=%d added for shop=%d", blackout.ID, req.ShopID)
	return models.FromDomainBlackout(blackout), nil
}

// RemoveBlackoutDate удаляет blackout-дату магазина
func (s *Service) RemoveBlackoutDate(ctx context.Context, shopID, blackoutID int64, actor models.Actor) error {
	s.logger.Info("RemoveBlackoutDate: removing blackout id=%d for shop=%d by user=%d", blackoutID, shopID, actor.UserID)

	if !actor.IsStaff() {
		s.logger.Warn("RemoveBlackoutDate: user=%d is not staff", actor.UserID)
		return ErrAccessDenied
	}

	err := s.calendarRepo.RemoveBlackoutDate(ctx, shopID, blackoutID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrBlackoutNotFound) {
			s.logger.Warn("RemoveBlackoutDate: blackout id=%d not found for shop=%d", blackoutID, shopID)
			return ErrBlackoutNotFound
		}
		s.logger.Error("RemoveBlackoutDate: repository error for shop=%d: %v", shopID, err)
		return fmt.Errorf("%w: RemoveBlackoutDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveBlackoutDate: blackout id=%d removed for shop=%d", blackoutID, shopID)
	return nil
}

// CapacitySummary строит сводку занятости магазина по дням периода
// Доступно только сотрудникам
func (s *Service) CapacitySummary(ctx context.Context, req *models.CapacitySummaryRequest) (*models.CapacitySummaryResponse, error) {
	s.logger.Info("CapacitySummary: building summary for shop=%d, period=%s to %s",
		req.ShopID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	if !req.Actor.IsStaff() {
		s.logger.Warn("CapacitySummary: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	from := truncateToDay(req.From)
	to := truncateToDay(req.To)

	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	if int(to.Sub(from).Hours()/24) > maxSummaryRangeDays {
		return nil, fmt.Errorf("%w: period longer than %d days", ErrInvalidInput, maxSummaryRangeDays)
	}

	policy, err := s.getPolicy(ctx, req.ShopID)
	if err != nil {
		return nil, err
	}

	blackouts, err := s.calendarRepo.ListBlackoutDates(ctx, domain.BlackoutDatesFilter{
		ShopID:    req.ShopID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		s.logger.Error("CapacitySummary: failed to list blackouts for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: CapacitySummary - failed to list blackouts: %v", ErrInternal, err)
	}

	blackoutByDate := make(map[string]bool, len(blackouts))
	for _, b := range blackouts {
		blackoutByDate[b.Date.Format(domain.DateFormat)] = true
	}

	// Активные бронирования за весь период одним запросом
	bookings, err := s.bookingRepo.GetByShopWithFilter(ctx, domain.BookingsFilter{
		ShopID:    req.ShopID,
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		s.logger.Error("CapacitySummary: failed to fetch bookings for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: CapacitySummary - failed to fetch bookings: %v", ErrInternal, err)
	}

	type dayCount struct{ regular, emergency int }
	countByDate := make(map[string]*dayCount)
	for _, b := range bookings {
		key := b.BookingDate.Format(domain.DateFormat)
		c, ok := countByDate[key]
		if !ok {
			c = &dayCount{}
			countByDate[key] = c
		}
		if b.IsEmergency {
			c.emergency++
		} else {
			c.regular++
		}
	}

	resp := &models.CapacitySummaryResponse{
		ShopID: req.ShopID,
		Days:   make([]models.DayCapacityResponse, 0),
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(domain.DateFormat)
		blackout := blackoutByDate[key]
		working := policy.IsWorkingDay(d.Weekday())

		day := models.DayCapacityResponse{
			Date:       key,
			WorkingDay: working,
			Blackout:   blackout,
		}

		if working && !blackout {
			day.RegularTotal = policy.MaxRegularPerDay()
			day.EmergencyTotal = policy.EmergencySlotsPerDay
		}

		if c, ok := countByDate[key]; ok {
			day.RegularUsed = c.regular
			day.EmergencyUsed = c.emergency
		}

		resp.Days = append(resp.Days, day)
	}

	return resp, nil
}

func (s *Service) getPolicy(ctx context.Context, shopID int64) (*domain.CalendarPolicy, error) {
	policy, err := s.calendarRepo.GetPolicyByShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
			s.logger.Warn("getPolicy: policy not found for shop=%d", shopID)
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("getPolicy: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: getPolicy - repository error: %v", ErrInternal, err)
	}
	return policy, nil
}

// validatePolicy проверяет календарную политику перед заменой
func validatePolicy(p *domain.CalendarPolicy) error {
	if len(p.WorkingDays) == 0 {
		return fmt.Errorf("%w: working days must not be empty", ErrInvalidConfiguration)
	}

	seen := make(map[time.Weekday]bool, len(p.WorkingDays))
	for _, d := range p.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidConfiguration, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicate weekday %d", ErrInvalidConfiguration, d)
		}
		seen[d] = true
	}

	if p.StartHour < domain.MinStartHour || p.EndHour > domain.MaxEndHour || p.StartHour >= p.EndHour {
		return fmt.Errorf("%w: invalid working hours %d-%d", ErrInvalidConfiguration, p.StartHour, p.EndHour)
	}

	if p.SlotDurationMinutes < domain.MinSlotDurationMinutes || p.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration %d minutes out of range", ErrInvalidConfiguration, p.SlotDurationMinutes)
	}

	// Длительность слота не должна превышать рабочее окно,
	// иначе сетка слотов пуста
	if p.SlotDurationMinutes > p.WindowMinutes() {
		return fmt.Errorf("%w: slot duration exceeds working window", ErrInvalidConfiguration)
	}

	if p.RegularSlotsPerDay < 1 || p.RegularSlotsPerDay > domain.MaxRegularSlotsPerDay {
		return fmt.Errorf("%w: regular slots per day %d out of range", ErrInvalidConfiguration, p.RegularSlotsPerDay)
	}

	if p.EmergencySlotsPerDay < 0 || p.EmergencySlotsPerDay > domain.MaxEmergencySlotsPerDay {
		return fmt.Errorf("%w: emergency slots per day %d out of range", ErrInvalidConfiguration, p.EmergencySlotsPerDay)
	}

	if p.UrgentFeePct < 0 || p.UrgentFeePct > domain.MaxFeePct {
		return fmt.Errorf("%w: urgent fee pct %.2f out of range", ErrInvalidConfiguration, p.UrgentFeePct)
	}

	if p.DepositPct < 0 || p.DepositPct > domain.MaxFeePct {
		return fmt.Errorf("%w: deposit pct %.2f out of range", ErrInvalidConfiguration, p.DepositPct)
	}

	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
