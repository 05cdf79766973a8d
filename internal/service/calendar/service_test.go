package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/domain"
	calendarRepo "github.com/signcraft/scheduling-service/internal/infra/storage/calendar"
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
	"github.com/signcraft/scheduling-service/pkg/types"
)

type fakeCalendarRepo struct {
	policies  map[int64]*domain.CalendarPolicy
	blackouts map[int64]*domain.BlackoutDate
	nextID    int64
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		policies:  make(map[int64]*domain.CalendarPolicy),
		blackouts: make(map[int64]*domain.BlackoutDate),
		nextID:    1,
	}
}

func (r *fakeCalendarRepo) GetPolicyByShop(_ context.Context, shopID int64) (*domain.CalendarPolicy, error) {
	p, ok := r.policies[shopID]
	if !ok {
		return nil, calendarRepo.ErrPolicyNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeCalendarRepo) ReplacePolicy(_ context.Context, policy *domain.CalendarPolicy) (*domain.CalendarPolicy, error) {
	copied := *policy
	if existing, ok := r.policies[policy.ShopID]; ok {
		copied.ID = existing.ID
		copied.Version = existing.Version + 1
	} else {
		copied.ID = r.nextID
		r.nextID++
		copied.Version = 1
	}
	r.policies[policy.ShopID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeCalendarRepo) ListBlackoutDates(_ context.Context, filter domain.BlackoutDatesFilter) ([]*domain.BlackoutDate, error) {
	var out []*domain.BlackoutDate
	for _, b := range r.blackouts {
		if b.ShopID != filter.ShopID {
			continue
		}
		if filter.StartDate != nil && b.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.Date.After(*filter.EndDate) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCalendarRepo) AddBlackoutDate(_ context.Context, blackout *domain.BlackoutDate) (*domain.BlackoutDate, error) {
	for _, b := range r.blackouts {
		if b.ShopID == blackout.ShopID && b.Date.Equal(blackout.Date) {
			return nil, calendarRepo.ErrBlackoutExists
		}
	}
	copied := *blackout
	copied.ID = r.nextID
	r.nextID++
	r.blackouts[copied.ID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeCalendarRepo) RemoveBlackoutDate(_ context.Context, shopID, id int64) error {
	b, ok := r.blackouts[id]
	if !ok || b.ShopID != shopID {
		return calendarRepo.ErrBlackoutNotFound
	}
	delete(r.blackouts, id)
	return nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (r *fakeBookingRepo) GetByShopWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.ShopID != filter.ShopID || !b.IsActive() {
			continue
		}
		if filter.StartDate != nil && b.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(*filter.EndDate) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func staffActor() models.Actor {
	return models.Actor{UserID: 7, Role: models.RoleStaff}
}

func validReplaceRequest(shopID int64) *models.ReplacePolicyRequest {
	return &models.ReplacePolicyRequest{
		Actor:                staffActor(),
		ShopID:               shopID,
		WorkingDays:          []int{1, 2, 3, 4, 5},
		StartHour:            9,
		EndHour:              18,
		SlotDurationMinutes:  120,
		RegularSlotsPerDay:   4,
		EmergencySlotsPerDay: 2,
		UrgentFeePct:         20,
		DepositPct:           50,
	}
}

func TestReplacePolicy_CreatesAndBumpsVersion(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewService(repo, &fakeBookingRepo{}, noopLogger{})

	resp, err := svc.ReplacePolicy(context.Background(), validReplaceRequest(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Version)

	req := validReplaceRequest(1)
	req.SlotDurationMinutes = 60
	resp, err = svc.ReplacePolicy(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Version)
	assert.Equal(t, 60, resp.SlotDurationMinutes)
}

func TestReplacePolicy_InvalidConfigLeavesPolicyIntact(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewService(repo, &fakeBookingRepo{}, noopLogger{})

	_, err := svc.ReplacePolicy(context.Background(), validReplaceRequest(1))
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*models.ReplacePolicyRequest)
	}{
		{"empty working days", func(r *models.ReplacePolicyRequest) { r.WorkingDays = nil }},
		{"start after end", func(r *models.ReplacePolicyRequest) { r.StartHour = 18; r.EndHour = 9 }},
		{"end hour past last representable time", func(r *models.ReplacePolicyRequest) { r.EndHour = 24 }},
		{"slot longer than window", func(r *models.ReplacePolicyRequest) { r.StartHour = 9; r.EndHour = 10; r.SlotDurationMinutes = 120 }},
		{"zero regular slots", func(r *models.ReplacePolicyRequest) { r.RegularSlotsPerDay = 0 }},
		{"negative emergency slots", func(r *models.ReplacePolicyRequest) { r.EmergencySlotsPerDay = -1 }},
		{"fee over 100", func(r *models.ReplacePolicyRequest) { r.UrgentFeePct = 150 }},
		{"duplicate weekday", func(r *models.ReplacePolicyRequest) { r.WorkingDays = []int{1, 1} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validReplaceRequest(1)
			tc.mutate(req)
			_, err := svc.ReplacePolicy(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}

	// Прежняя политика не изменилась
	policy, err := svc.GetPolicy(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), policy.Version)
	assert.Equal(t, 120, policy.SlotDurationMinutes)
}

func TestReplacePolicy_AcceptsLatestCloseHour(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewService(repo, &fakeBookingRepo{}, noopLogger{})

	req := validReplaceRequest(1)
	req.StartHour = 15
	req.EndHour = domain.MaxEndHour

	resp, err := svc.ReplacePolicy(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxEndHour, resp.EndHour)
}

func TestReplacePolicy_StaffOnly(t *testing.T) {
	svc := NewService(newFakeCalendarRepo(), &fakeBookingRepo{}, noopLogger{})

	req := validReplaceRequest(1)
	req.Actor = models.Actor{UserID: 42, Role: models.RoleCustomer}
	_, err := svc.ReplacePolicy(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetPolicy_NotFound(t *testing.T) {
	svc := NewService(newFakeCalendarRepo(), &fakeBookingRepo{}, noopLogger{})

	_, err := svc.GetPolicy(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestAddBlackoutDate_DuplicateRejected(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewService(repo, &fakeBookingRepo{}, noopLogger{})

	req := &models.AddBlackoutRequest{
		Actor:  staffActor(),
		ShopID: 1,
		Date:   "2026-09-15",
	}

	resp, err := svc.AddBlackoutDate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", resp.Date)

	_, err = svc.AddBlackoutDate(context.Background(), req)
	assert.ErrorIs(t, err, ErrBlackoutExists)
}

func TestAddBlackoutDate_InvalidDate(t *testing.T) {
	svc := NewService(newFakeCalendarRepo(), &fakeBookingRepo{}, noopLogger{})

	_, err := svc.AddBlackoutDate(context.Background(), &models.AddBlackoutRequest{
		Actor:  staffActor(),
		ShopID: 1,
		Date:   "15.09.2026",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemoveBlackoutDate(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewService(repo, &fakeBookingRepo{}, noopLogger{})

	resp, err := svc.AddBlackoutDate(context.Background(), &models.AddBlackoutRequest{
		Actor:  staffActor(),
		ShopID: 1,
		Date:   "2026-09-15",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveBlackoutDate(context.Background(), 1, resp.ID, staffActor()))
	err = svc.RemoveBlackoutDate(context.Background(), 1, resp.ID, staffActor())
	assert.ErrorIs(t, err, ErrBlackoutNotFound)
}

func TestCapacitySummary(t *testing.T) {
	repo := newFakeCalendarRepo()
	// Пн-Пт, 9-18, слоты по 120 минут: сетка 4 слота, регулярный пул 4
	_, err := NewService(repo, &fakeBookingRepo{}, noopLogger{}).
		ReplacePolicy(context.Background(), validReplaceRequest(1))
	require.NoError(t, err)

	// 2026-09-14 понедельник, 2026-09-15 вторник (blackout), 2026-09-20 воскресенье
	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, ShopID: 1, BookingDate: monday, StartTime: types.TimeString("09:00"), Status: domain.StatusPending},
		{ID: 2, ShopID: 1, BookingDate: monday, StartTime: types.TimeString("11:00"), Status: domain.StatusConfirmed, IsEmergency: true},
		{ID: 3, ShopID: 1, BookingDate: monday, StartTime: types.TimeString("13:00"), Status: domain.StatusCancelled},
	}}

	svc := NewService(repo, bookings, noopLogger{})

	_, err = svc.AddBlackoutDate(context.Background(), &models.AddBlackoutRequest{
		Actor:  staffActor(),
		ShopID: 1,
		Date:   "2026-09-15",
	})
	require.NoError(t, err)

	resp, err := svc.CapacitySummary(context.Background(), &models.CapacitySummaryRequest{
		Actor:  staffActor(),
		ShopID: 1,
		From:   monday,
		To:     sunday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)

	mon := resp.Days[0]
	assert.True(t, mon.WorkingDay)
	assert.Equal(t, 1, mon.RegularUsed) // отменённое бронирование не считается
	assert.Equal(t, 4, mon.RegularTotal)
	assert.Equal(t, 1, mon.EmergencyUsed)
	assert.Equal(t, 2, mon.EmergencyTotal)

	tue := resp.Days[1]
	assert.True(t, tue.Blackout)
	assert.Equal(t, 0, tue.RegularTotal)
	assert.Equal(t, 0, tue.EmergencyTotal)

	sun := resp.Days[6]
	assert.False(t, sun.WorkingDay)
	assert.Equal(t, 0, sun.RegularTotal)
}

func TestCapacitySummary_RangeValidation(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewService(repo, &fakeBookingRepo{}, noopLogger{})
	_, err := svc.ReplacePolicy(context.Background(), validReplaceRequest(1))
	require.NoError(t, err)

	from := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	_, err = svc.CapacitySummary(context.Background(), &models.CapacitySummaryRequest{
		Actor: staffActor(), ShopID: 1, From: from, To: from.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CapacitySummary(context.Background(), &models.CapacitySummaryRequest{
		Actor: staffActor(), ShopID: 1, From: from, To: from.AddDate(0, 0, 120),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
