package domain

import "time"

// CalendarPolicy is the working calendar of a shop: which weekdays it takes
// appointments, the daily time window, the slot grid and the capacity of the
// regular and emergency pools. A shop has exactly one active policy; updates
// replace it wholesale and bump Version, they never patch it partially.
// Bookings copy the fee values they need at creation time, so editing the
// policy never rewrites existing bookings.
type CalendarPolicy struct {
	ID                   int64
	ShopID               int64
	WorkingDays          []time.Weekday
	StartHour            int
	EndHour              int
	SlotDurationMinutes  int
	RegularSlotsPerDay   int
	EmergencySlotsPerDay int // additional capacity on top of the regular pool, not a subset
	UrgentFeePct         float64
	DepositPct           float64
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsWorkingDay returns true if the shop takes appointments on the given weekday
func (p *CalendarPolicy) IsWorkingDay(day time.Weekday) bool {
	for _, d := range p.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// WindowMinutes returns the length of the daily booking window in minutes
func (p *CalendarPolicy) WindowMinutes() int {
	return (p.EndHour - p.StartHour) * 60
}

// GridSlotsPerDay returns how many full slots fit into the daily window.
// A trailing partial slot is discarded.
func (p *CalendarPolicy) GridSlotsPerDay() int {
	if p.SlotDurationMinutes <= 0 {
		return 0
	}
	return p.WindowMinutes() / p.SlotDurationMinutes
}

// MaxRegularPerDay returns the effective regular capacity for one day:
// the slot grid capped by the configured ceiling. Capacity is a hard
// ceiling even when the time window allows more slots.
func (p *CalendarPolicy) MaxRegularPerDay() int {
	grid := p.GridSlotsPerDay()
	if grid > p.RegularSlotsPerDay {
		return p.RegularSlotsPerDay
	}
	return grid
}

// BlackoutDate is a date on which the shop offers no slots of either kind,
// regardless of the policy.
type BlackoutDate struct {
	ID        int64
	ShopID    int64
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// BlackoutDatesFilter filters blackout dates by an optional date range
type BlackoutDatesFilter struct {
	ShopID    int64
	StartDate *time.Time
	EndDate   *time.Time
}
