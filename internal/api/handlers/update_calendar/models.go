package update_calendar

import (
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

// UpdateCalendarRequest HTTP request model
type UpdateCalendarRequest struct {
	WorkingDays          []int   `json:"workingDays"` // 0=Sunday .. 6=Saturday
	StartHour            int     `json:"startHour"`
	EndHour              int     `json:"endHour"`
	SlotDurationMinutes  int     `json:"slotDurationMinutes"`
	RegularSlotsPerDay   int     `json:"regularSlotsPerDay"`
	EmergencySlotsPerDay int     `json:"emergencySlotsPerDay"`
	UrgentFeePct         float64 `json:"urgentFeePct"`
	DepositPct           float64 `json:"depositPct"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateCalendarRequest) ToServiceRequest(actor models.Actor, shopID int64) *models.ReplacePolicyRequest {
	return &models.ReplacePolicyRequest{
		Actor:                actor,
		ShopID:               shopID,
		WorkingDays:          r.WorkingDays,
		StartHour:            r.StartHour,
		EndHour:              r.EndHour,
		SlotDurationMinutes:  r.SlotDurationMinutes,
		RegularSlotsPerDay:   r.RegularSlotsPerDay,
		EmergencySlotsPerDay: r.EmergencySlotsPerDay,
		UrgentFeePct:         r.UrgentFeePct,
		DepositPct:           r.DepositPct,
	}
}
