package get_available_slots

import (
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/pkg/types"
)

// generateGrid генерирует сетку слотов дня по политике магазина
// Слоты идут с начала рабочего окна с шагом slot_duration,
// неполный хвостовой слот отбрасывается
func generateGrid(policy *domain.CalendarPolicy) ([]types.TimeString, error) {
	openTime, err := types.NewTimeStringFromMinutes(policy.StartHour * 60)
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromMinutes(policy.EndHour * 60)
	if err != nil {
		return nil, err
	}

	grid := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		slotEnd, err := currentSlot.AddMinutes(policy.SlotDurationMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		grid = append(grid, currentSlot)
		currentSlot = slotEnd
	}

	return grid, nil
}

// computeDaySlots вычисляет доступные слоты одного дня
//
// Регулярный список кандидатов - первые regular_slots_per_day слотов сетки.
// Слот свободен, если регулярный пул не исчерпан и слот не пересекается
// с активным регулярным бронированием.
//
// Аварийные слоты считаются по всей сетке против аварийных бронирований и
// предлагаются только при явном запросе и исчерпанном регулярном пуле.
func computeDaySlots(
	policy *domain.CalendarPolicy,
	date time.Time,
	now time.Time,
	bookings []*domain.Booking,
	blackout bool,
	emergencyRequested bool,
) ([]Slot, error) {
	if blackout || isDateInPast(date, now) || !policy.IsWorkingDay(date.Weekday()) {
		return []Slot{}, nil
	}

	grid, err := generateGrid(policy)
	if err != nil {
		return nil, err
	}

	// Сегодняшние слоты, начавшиеся до текущего момента, не предлагаются
	if isSameDay(date, now) {
		cutoff := types.NewTimeString(now)
		filtered := make([]types.TimeString, 0, len(grid))
		for _, s := range grid {
			if s.IsAfter(cutoff) {
				filtered = append(filtered, s)
			}
		}
		grid = filtered
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

	candidates := grid
	if len(candidates) > policy.RegularSlotsPerDay {
		candidates = candidates[:policy.RegularSlotsPerDay]
	}

	regularFree := make([]Slot, 0)
	if len(regular) < policy.RegularSlotsPerDay {
		for _, start := range candidates {
			free, err := slotIsFree(start, policy.SlotDurationMinutes, regular)
			if err != nil {
				return nil, err
			}
			if free {
				slot, err := makeSlot(start, policy.SlotDurationMinutes, domain.KindRegular)
				if err != nil {
					return nil, err
				}
				regularFree = append(regularFree, slot)
			}
		}
	}

	if !emergencyRequested {
		return regularFree, nil
	}

	// При наличии регулярных слотов аварийный пул не предлагается
	if len(regularFree) > 0 {
		return regularFree, nil
	}

	// Предлагается не больше слотов, чем осталось места в аварийном пуле
	emergencyFree := make([]Slot, 0)
	remaining := policy.EmergencySlotsPerDay - len(emergency)
	for _, start := range grid {
		if len(emergencyFree) >= remaining {
			break
		}
		free, err := slotIsFree(start, policy.SlotDurationMinutes, emergency)
		if err != nil {
			return nil, err
		}
		if free {
			slot, err := makeSlot(start, policy.SlotDurationMinutes, domain.KindEmergency)
			if err != nil {
				return nil, err
			}
			emergencyFree = append(emergencyFree, slot)
		}
	}

	return emergencyFree, nil
}

// slotIsFree проверяет, что слот не пересекается ни с одним бронированием
// Граничащие интервалы пересечением не считаются
func slotIsFree(start types.TimeString, duration int, bookings []*domain.Booking) (bool, error) {
	end, err := start.AddMinutes(duration)
	if err != nil {
		return false, err
	}

	for _, b := range bookings {
		if b.Overlaps(start, end) {
			return false, nil
		}
	}

	return true, nil
}

func makeSlot(start types.TimeString, duration int, kind domain.SlotKind) (Slot, error) {
	end, err := start.AddMinutes(duration)
	if err != nil {
		return Slot{}, err
	}
	return Slot{
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: duration,
		Kind:            string(kind),
	}, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
