package models

import (
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
)

// Роли пользователей, приходящие из API Gateway
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Actor аутентифицированный пользователь запроса
type Actor struct {
	UserID int64
	Role   string
}

// IsStaff возвращает true для сотрудников мастерской
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// Request модели

// ReplacePolicyRequest запрос на полную замену календарной политики магазина
type ReplacePolicyRequest struct {
	Actor                Actor
	ShopID               int64
	WorkingDays          []int   `json:"workingDays"` // 0=Sunday .. 6=Saturday
	StartHour            int     `json:"startHour"`
	EndHour              int     `json:"endHour"`
	SlotDurationMinutes  int     `json:"slotDurationMinutes"`
	RegularSlotsPerDay   int     `json:"regularSlotsPerDay"`
	EmergencySlotsPerDay int     `json:"emergencySlotsPerDay"`
	UrgentFeePct         float64 `json:"urgentFeePct"`
	DepositPct           float64 `json:"depositPct"`
}

// ToDomainPolicy конвертирует request в domain модель
func (r *ReplacePolicyRequest) ToDomainPolicy() *domain.CalendarPolicy {
	days := make([]time.Weekday, 0, len(r.WorkingDays))
	for _, d := range r.WorkingDays {
		days = append(days, time.Weekday(d))
	}

	return &domain.CalendarPolicy{
		ShopID:               r.ShopID,
		WorkingDays:          days,
		StartHour:            r.StartHour,
		EndHour:              r.EndHour,
		SlotDurationMinutes:  r.SlotDurationMinutes,
		RegularSlotsPerDay:   r.RegularSlotsPerDay,
		EmergencySlotsPerDay: r.EmergencySlotsPerDay,
		UrgentFeePct:         r.UrgentFeePct,
		DepositPct:           r.DepositPct,
	}
}

// AddBlackoutRequest запрос на добавление blackout-даты
type AddBlackoutRequest struct {
	Actor  Actor
	ShopID int64
	Date   string  `json:"date"` // "2026-09-15"
	Reason *string `json:"reason,omitempty"`
}

// ListBlackoutsRequest запрос на список blackout-дат за период
type ListBlackoutsRequest struct {
	ShopID    int64
	StartDate *time.Time
	EndDate   *time.Time
}

// CapacitySummaryRequest запрос сводки занятости по дням
type CapacitySummaryRequest struct {
	Actor  Actor
	ShopID int64
	From   time.Time
	To     time.Time
}

// Response модели

// PolicyResponse ответ с календарной политикой магазина
type PolicyResponse struct {
	ID                   int64     `json:"id"`
	ShopID               int64     `json:"shopId"`
	WorkingDays          []int     `json:"workingDays"`
	StartHour            int       `json:"startHour"`
	EndHour              int       `json:"endHour"`
	SlotDurationMinutes  int       `json:"slotDurationMinutes"`
	RegularSlotsPerDay   int       `json:"regularSlotsPerDay"`
	EmergencySlotsPerDay int       `json:"emergencySlotsPerDay"`
	UrgentFeePct         float64   `json:"urgentFeePct"`
	DepositPct           float64   `json:"depositPct"`
	Version              int64     `json:"version"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.CalendarPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	days := make([]int, 0, len(p.WorkingDays))
	for _, d := range p.WorkingDays {
		days = append(days, int(d))
	}

	return &PolicyResponse{
		ID:                   p.ID,
		ShopID:               p.ShopID,
		WorkingDays:          days,
		StartHour:            p.StartHour,
		EndHour:              p.EndHour,
		SlotDurationMinutes:  p.SlotDurationMinutes,
		RegularSlotsPerDay:   p.RegularSlotsPerDay,
		EmergencySlotsPerDay: p.EmergencySlotsPerDay,
		UrgentFeePct:         p.UrgentFeePct,
		DepositPct:           p.DepositPct,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// BlackoutResponse ответ с blackout-датой
type BlackoutResponse struct {
	ID        int64     `json:"id"`
	ShopID    int64     `json:"shopId"`
	Date      string    `json:"date"` // "2026-09-15"
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlackoutListResponse ответ со списком blackout-дат
type BlackoutListResponse struct {
	BlackoutDates []BlackoutResponse `json:"blackoutDates"`
}

// FromDomainBlackout конвертирует domain модель в DTO
func FromDomainBlackout(b *domain.BlackoutDate) *BlackoutResponse {
	if b == nil {
		return nil
	}

	return &BlackoutResponse{
		ID:        b.ID,
		ShopID:    b.ShopID,
		Date:      b.Date.Format(domain.DateFormat),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список domain моделей в DTO
func FromDomainBlackoutList(blackouts []*domain.BlackoutDate) *BlackoutListResponse {
	resp := &BlackoutListResponse{
		BlackoutDates: make([]BlackoutResponse, 0, len(blackouts)),
	}

	for _, b := range blackouts {
		if dto := FromDomainBlackout(b); dto != nil {
			resp.BlackoutDates = append(resp.BlackoutDates, *dto)
		}
	}

	return resp
}

// DayCapacityResponse сводка занятости одного дня
type DayCapacityResponse struct {
	Date           string `json:"date"` // "2026-09-15"
	WorkingDay     bool   `json:"workingDay"`
	Blackout       bool   `json:"blackout"`
	RegularUsed    int    `json:"regularUsed"`
	RegularTotal   int    `json:"regularTotal"`
	EmergencyUsed  int    `json:"emergencyUsed"`
	EmergencyTotal int    `json:"emergencyTotal"`
}

// CapacitySummaryResponse сводка занятости по дням периода
type CapacitySummaryResponse struct {
	ShopID int64                 `json:"shopId"`
	Days   []DayCapacityResponse `json:"days"`
}
