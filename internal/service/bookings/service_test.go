package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/domain"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
	"github.com/signcraft/scheduling-service/pkg/ptr"
	"github.com/signcraft/scheduling-service/pkg/types"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bs ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bs {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByShopWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.ShopID != filter.ShopID {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatusFrom(_ context.Context, id int64, from, to domain.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrStaleStatus
	}
	b.Status = to
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64, reason *string) error {
	b, ok := r.bookings[id]
	if !ok || !b.IsActive() {
		return bookingRepo.ErrStaleStatus
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	return nil
}

type fakeOrderRepo struct {
	orders map[int64]*domain.Order
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, orderRepo.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.BookingID == bookingID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, orderRepo.ErrOrderNotFound
}

type fakePaymentRepo struct {
	payments []*domain.Payment
}

func (r *fakePaymentRepo) ListByOrderID(_ context.Context, orderID int64) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SumCompletedByOrderID(_ context.Context, orderID int64) (float64, error) {
	var sum float64
	for _, p := range r.payments {
		if p.OrderID == orderID && p.Status == domain.PaymentCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		ShopID:          1,
		QuoteID:         100,
		CustomerID:      42,
		BookingDate:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 120,
		Status:          status,
	}
}

func newTestService(br *fakeBookingRepo, or *fakeOrderRepo, pr *fakePaymentRepo) *Service {
	if or == nil {
		or = &fakeOrderRepo{orders: map[int64]*domain.Order{}}
	}
	if pr == nil {
		pr = &fakePaymentRepo{}
	}
	return NewService(br, or, pr, noopLogger{})
}

func TestGetByID_OwnerAndStaffAccess(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newTestService(repo, nil, nil)

	owner := models.Actor{UserID: 42, Role: models.RoleCustomer}
	resp, err := svc.GetByID(context.Background(), 1, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "10:00", resp.StartTime)

	staff := models.Actor{UserID: 7, Role: models.RoleStaff}
	_, err = svc.GetByID(context.Background(), 1, staff)
	require.NoError(t, err)

	stranger := models.Actor{UserID: 99, Role: models.RoleCustomer}
	_, err = svc.GetByID(context.Background(), 1, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), nil, nil)

	_, err := svc.GetByID(context.Background(), 555, models.Actor{UserID: 1, Role: models.RoleStaff})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_PendingBooking(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newTestService(repo, nil, nil)

	req := &models.CancelBookingRequest{
		Actor:              models.Actor{UserID: 42, Role: models.RoleCustomer},
		CancellationReason: ptr.Ptr("client rescheduled"),
	}
	require.NoError(t, svc.Cancel(context.Background(), 1, req))

	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)
	require.NotNil(t, repo.bookings[1].CancellationReason)
	assert.Equal(t, "client rescheduled", *repo.bookings[1].CancellationReason)
	assert.NotNil(t, repo.bookings[1].CancelledAt)
}

func TestCancel_Idempotent(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newTestService(repo, nil, nil)

	req := &models.CancelBookingRequest{Actor: models.Actor{UserID: 42, Role: models.RoleCustomer}}

	require.NoError(t, svc.Cancel(context.Background(), 1, req))
	// Повторная отмена - успех без изменений
	require.NoError(t, svc.Cancel(context.Background(), 1, req))
	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)
}

func TestCancel_CompletedRejected(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusCompleted))
	svc := newTestService(repo, nil, nil)

	req := &models.CancelBookingRequest{Actor: models.Actor{UserID: 42, Role: models.RoleCustomer}}
	err := svc.Cancel(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newTestService(repo, nil, nil)

	req := &models.CancelBookingRequest{Actor: models.Actor{UserID: 99, Role: models.RoleCustomer}}
	err := svc.Cancel(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
}

func TestComplete_ConfirmedBooking(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newTestService(repo, nil, nil)

	resp, err := svc.Complete(context.Background(), 1, models.Actor{UserID: 7, Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, domain.StatusCompleted, repo.bookings[1].Status)
}

func TestComplete_PendingRejected(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPending))
	svc := newTestService(repo, nil, nil)

	_, err := svc.Complete(context.Background(), 1, models.Actor{UserID: 7, Role: models.RoleStaff})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_StaffOnly(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc := newTestService(repo, nil, nil)

	_, err := svc.Complete(context.Background(), 1, models.Actor{UserID: 42, Role: models.RoleCustomer})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetOrder_WithPaymentsAndBalance(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	orders := &fakeOrderRepo{orders: map[int64]*domain.Order{
		10: {
			ID:            10,
			BookingID:     1,
			QuoteID:       100,
			BaseSubtotal:  120.00,
			UrgentFeePct:  20,
			TaxRate:       0.23,
			TotalSubtotal: 144.00,
			TaxAmount:     33.12,
			TotalAmount:   177.12,
			DepositPct:    50,
			DepositAmount: 88.56,
		},
	}}
	payments := &fakePaymentRepo{payments: []*domain.Payment{
		{ID: 1, OrderID: 10, Amount: 88.56, Status: domain.PaymentCompleted},
		{ID: 2, OrderID: 10, Amount: 10.00, Status: domain.PaymentFailed},
	}}
	svc := newTestService(repo, orders, payments)

	resp, err := svc.GetOrder(context.Background(), 10, models.Actor{UserID: 42, Role: models.RoleCustomer})
	require.NoError(t, err)

	assert.InDelta(t, 88.56, resp.AmountPaid, 0.001)
	assert.InDelta(t, 88.56, resp.BalanceDue, 0.001)
	assert.Len(t, resp.Payments, 2)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), nil, nil)

	_, err := svc.GetOrder(context.Background(), 404, models.Actor{UserID: 1, Role: models.RoleStaff})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
