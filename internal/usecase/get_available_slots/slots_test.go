package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/pkg/types"
)

func testPolicy() *domain.CalendarPolicy {
	return &domain.CalendarPolicy{
		ID:                   1,
		ShopID:               1,
		WorkingDays:          []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartHour:            9,
		EndHour:              18,
		SlotDurationMinutes:  120,
		RegularSlotsPerDay:   4,
		EmergencySlotsPerDay: 2,
		UrgentFeePct:         20,
		DepositPct:           50,
	}
}

func activeBooking(start string, duration int, emergency bool) *domain.Booking {
	return &domain.Booking{
		ShopID:          1,
		StartTime:       types.TimeString(start),
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
		IsEmergency:     emergency,
	}
}

var (
	monday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	// Полночь за неделю до monday, все даты будущие
	baseNow = time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
)

func slotStarts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func TestGenerateGrid_DiscardsTrailingPartialSlot(t *testing.T) {
	// Окно 9:00-18:00 со слотами по 120 минут: хвост 17:00-19:00 не помещается
	grid, err := generateGrid(testPolicy())
	require.NoError(t, err)

	starts := make([]string, 0, len(grid))
	for _, s := range grid {
		starts = append(starts, s.String())
	}
	assert.Equal(t, []string{"09:00", "11:00", "13:00", "15:00"}, starts)
}

func TestGenerateGrid_ExactFit(t *testing.T) {
	policy := testPolicy()
	policy.StartHour = 9
	policy.EndHour = 13
	policy.SlotDurationMinutes = 120

	grid, err := generateGrid(policy)
	require.NoError(t, err)
	assert.Len(t, grid, 2)
}

func TestGenerateGrid_LatestCloseHour(t *testing.T) {
	// Максимально поздняя граница окна: последний слот заканчивается в 23:00
	policy := testPolicy()
	policy.StartHour = 21
	policy.EndHour = domain.MaxEndHour
	policy.SlotDurationMinutes = 60

	grid, err := generateGrid(policy)
	require.NoError(t, err)

	starts := make([]string, 0, len(grid))
	for _, s := range grid {
		starts = append(starts, s.String())
	}
	assert.Equal(t, []string{"21:00", "22:00"}, starts)
}

func TestComputeDaySlots_EmptyDay(t *testing.T) {
	slots, err := computeDaySlots(testPolicy(), monday, baseNow, nil, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00", "13:00", "15:00"}, slotStarts(slots))

	for _, s := range slots {
		assert.Equal(t, string(domain.KindRegular), s.Kind)
	}
}

func TestComputeDaySlots_BlackoutAndNonWorkingAndPast(t *testing.T) {
	policy := testPolicy()

	slots, err := computeDaySlots(policy, monday, baseNow, nil, true, false)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = computeDaySlots(policy, sunday, baseNow, nil, false, false)
	require.NoError(t, err)
	assert.Empty(t, slots)

	past := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	slots, err = computeDaySlots(policy, past, baseNow, nil, false, false)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeDaySlots_OverlapFiltering(t *testing.T) {
	bookings := []*domain.Booking{
		activeBooking("11:00", 120, false),
	}

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, bookings, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "13:00", "15:00"}, slotStarts(slots))
}

func TestComputeDaySlots_TouchingBoundariesDoNotOverlap(t *testing.T) {
	// Бронирование 09:00-11:00 граничит со слотом 11:00-13:00
	bookings := []*domain.Booking{
		activeBooking("09:00", 120, false),
	}

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, bookings, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "13:00", "15:00"}, slotStarts(slots))
}

func TestComputeDaySlots_CancelledBookingsIgnored(t *testing.T) {
	cancelled := activeBooking("11:00", 120, false)
	cancelled.Status = domain.StatusCancelled

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, []*domain.Booking{cancelled}, false, false)
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestComputeDaySlots_RegularCapBelowGrid(t *testing.T) {
	policy := testPolicy()
	policy.RegularSlotsPerDay = 2

	slots, err := computeDaySlots(policy, monday, baseNow, nil, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slotStarts(slots))
}

func TestComputeDaySlots_EmergencyNotOfferedWithoutRequest(t *testing.T) {
	// Регулярный пул полностью занят
	bookings := []*domain.Booking{
		activeBooking("09:00", 120, false),
		activeBooking("11:00", 120, false),
		activeBooking("13:00", 120, false),
		activeBooking("15:00", 120, false),
	}

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, bookings, false, false)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeDaySlots_EmergencyOfferedWhenRegularExhausted(t *testing.T) {
	bookings := []*domain.Booking{
		activeBooking("09:00", 120, false),
		activeBooking("11:00", 120, false),
		activeBooking("13:00", 120, false),
		activeBooking("15:00", 120, false),
	}

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, bookings, false, true)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Equal(t, string(domain.KindEmergency), s.Kind)
	}
}

func TestComputeDaySlots_EmergencyNotOfferedWhileRegularFree(t *testing.T) {
	slots, err := computeDaySlots(testPolicy(), monday, baseNow, nil, false, true)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Equal(t, string(domain.KindRegular), s.Kind)
	}
}

func TestComputeDaySlots_EmergencyCappedByRemainingCapacity(t *testing.T) {
	// Регулярный пул занят, аварийный пуст: свободных слотов сетки четыре,
	// но предлагаются только emergency_slots_per_day из них
	bookings := []*domain.Booking{
		activeBooking("09:00", 120, false),
		activeBooking("11:00", 120, false),
		activeBooking("13:00", 120, false),
		activeBooking("15:00", 120, false),
	}

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, bookings, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slotStarts(slots))
	for _, s := range slots {
		assert.Equal(t, string(domain.KindEmergency), s.Kind)
	}

	// Одно аварийное бронирование: остается ровно одно место
	bookings = append(bookings, activeBooking("09:00", 120, true))
	slots, err = computeDaySlots(testPolicy(), monday, baseNow, bookings, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, slotStarts(slots))
}

func TestComputeDaySlots_EmergencyPoolExhausted(t *testing.T) {
	bookings := []*domain.Booking{
		activeBooking("09:00", 120, false),
		activeBooking("11:00", 120, false),
		activeBooking("13:00", 120, false),
		activeBooking("15:00", 120, false),
		activeBooking("09:00", 120, true),
		activeBooking("11:00", 120, true),
	}

	slots, err := computeDaySlots(testPolicy(), monday, baseNow, bookings, false, true)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeDaySlots_TodayPastSlotsFiltered(t *testing.T) {
	// Сейчас понедельник 12:30, слоты 09:00 и 11:00 уже недоступны
	now := time.Date(2026, 9, 14, 12, 30, 0, 0, time.UTC)

	slots, err := computeDaySlots(testPolicy(), monday, now, nil, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"13:00", "15:00"}, slotStarts(slots))
}
