package recompute_order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/domain"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
)

type memBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (r *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

type memOrderRepo struct {
	orders map[int64]*domain.Order
}

func (r *memOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, orderRepo.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memOrderRepo) UpdateTotals(_ context.Context, order *domain.Order) error {
	o, ok := r.orders[order.ID]
	if !ok {
		return orderRepo.ErrOrderNotFound
	}
	*o = *order
	return nil
}

type memPaymentRepo struct {
	completed map[int64]bool
}

func (r *memPaymentRepo) HasCompletedByOrderID(_ context.Context, orderID int64) (bool, error) {
	return r.completed[orderID], nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func fixtures(emergency bool, paid bool) (*memBookingRepo, *memOrderRepo, *memPaymentRepo) {
	feePct := 0.0
	if emergency {
		feePct = 20.0
	}

	bookings := &memBookingRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, CustomerID: 42, IsEmergency: emergency, UrgentFeePct: feePct, Status: domain.StatusPending},
	}}

	order := &domain.Order{
		ID:           10,
		BookingID:    1,
		QuoteID:      100,
		BaseSubtotal: 120.00,
		UrgentFeePct: feePct,
		TaxRate:      0.23,
		DepositPct:   50,
	}
	order.Apply(domain.ComputeOrderTotals(order.BaseSubtotal, feePct, order.TaxRate, order.DepositPct, emergency))

	payments := &memPaymentRepo{completed: map[int64]bool{}}
	if paid {
		payments.completed[10] = true
	}

	return bookings, &memOrderRepo{orders: map[int64]*domain.Order{10: order}}, payments
}

func TestExecute_RecomputesDeposit(t *testing.T) {
	bookings, orders, payments := fixtures(true, false)
	uc := NewUseCase(bookings, orders, payments, fakeTxManager{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 7, UserRole: "staff", OrderID: 10, DepositPct: 25,
	})
	require.NoError(t, err)

	// total 177.12, депозит 25% = 44.28
	assert.InDelta(t, 177.12, resp.TotalAmount, 0.001)
	assert.InDelta(t, 25, resp.DepositPct, 0.001)
	assert.InDelta(t, 44.28, resp.DepositAmount, 0.001)

	// Наценка заморожена на бронировании и не изменилась
	assert.InDelta(t, 20, resp.UrgentFeePct, 0.001)
	assert.InDelta(t, 44.28, orders.orders[10].DepositAmount, 0.001)
}

func TestExecute_LockedByCompletedPayment(t *testing.T) {
	bookings, orders, payments := fixtures(false, true)
	uc := NewUseCase(bookings, orders, payments, fakeTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 7, UserRole: "staff", OrderID: 10, DepositPct: 25,
	})
	assert.ErrorIs(t, err, ErrOrderLocked)
	assert.InDelta(t, 50, orders.orders[10].DepositPct, 0.001)
}

func TestExecute_StaffOnly(t *testing.T) {
	bookings, orders, payments := fixtures(false, false)
	uc := NewUseCase(bookings, orders, payments, fakeTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 42, UserRole: "customer", OrderID: 10, DepositPct: 25,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_DepositPctValidation(t *testing.T) {
	bookings, orders, payments := fixtures(false, false)
	uc := NewUseCase(bookings, orders, payments, fakeTxManager{}, noopLogger{})

	for _, pct := range []float64{-1, 101} {
		_, err := uc.Execute(context.Background(), &Request{
			UserID: 7, UserRole: "staff", OrderID: 10, DepositPct: pct,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExecute_OrderNotFound(t *testing.T) {
	bookings, orders, payments := fixtures(false, false)
	uc := NewUseCase(bookings, orders, payments, fakeTxManager{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 7, UserRole: "staff", OrderID: 404, DepositPct: 25,
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
