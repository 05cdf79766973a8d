package confirm_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signcraft/scheduling-service/internal/domain"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
	"github.com/signcraft/scheduling-service/pkg/ptr"
	"github.com/signcraft/scheduling-service/pkg/types"
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

func (r *memBookingRepo) UpdateStatusFrom(_ context.Context, id int64, from, to domain.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrStaleStatus
	}
	b.Status = to
	return nil
}

type memOrderRepo struct {
	orders map[int64]*domain.Order
}

func (r *memOrderRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.BookingID == bookingID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, orderRepo.ErrOrderNotFound
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
	payments []*domain.Payment
	nextID   int64
}

func (r *memPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.nextID++
	copied := *p
	copied.ID = r.nextID
	r.payments = append(r.payments, &copied)
	result := copied
	return &result, nil
}

func (r *memPaymentRepo) HasCompletedByOrderID(_ context.Context, orderID int64) (bool, error) {
	for _, p := range r.payments {
		if p.OrderID == orderID && p.Status == domain.PaymentCompleted {
			return true, nil
		}
	}
	return false, nil
}

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.DoSerializable(ctx, fn)
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func fixtures(status domain.BookingStatus, emergency bool) (*memBookingRepo, *memOrderRepo, *memPaymentRepo) {
	feePct := 0.0
	if emergency {
		feePct = 20.0
	}

	bookings := &memBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID:              1,
			ShopID:          1,
			QuoteID:         100,
			CustomerID:      42,
			BookingDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			StartTime:       types.TimeString("09:00"),
			DurationMinutes: 120,
			Status:          status,
			IsEmergency:     emergency,
			UrgentFeePct:    feePct,
		},
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

	orders := &memOrderRepo{orders: map[int64]*domain.Order{10: order}}

	return bookings, orders, &memPaymentRepo{}
}

func newTestUseCase(b *memBookingRepo, o *memOrderRepo, p *memPaymentRepo) *UseCase {
	return NewUseCase(b, o, p, &fakeTxManager{}, noopLogger{})
}

func TestExecute_ConfirmsAndRecordsDeposit(t *testing.T) {
	bookings, orders, payments := fixtures(domain.StatusPending, true)
	uc := newTestUseCase(bookings, orders, payments)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 42, UserRole: "customer", BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.InDelta(t, 177.12, resp.TotalAmount, 0.001)
	assert.InDelta(t, 88.56, resp.DepositAmount, 0.001)

	assert.Equal(t, domain.StatusConfirmed, bookings.bookings[1].Status)
	require.Len(t, payments.payments, 1)
	assert.InDelta(t, 88.56, payments.payments[0].Amount, 0.001)
	assert.Equal(t, domain.PaymentCompleted, payments.payments[0].Status)
}

func TestExecute_IdempotentSecondConfirm(t *testing.T) {
	bookings, orders, payments := fixtures(domain.StatusPending, false)
	uc := newTestUseCase(bookings, orders, payments)

	_, err := uc.Execute(context.Background(), &Request{UserID: 42, UserRole: "customer", BookingID: 1})
	require.NoError(t, err)

	// Повторное подтверждение не создает второй платеж
	resp, err := uc.Execute(context.Background(), &Request{UserID: 42, UserRole: "customer", BookingID: 1})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Len(t, payments.payments, 1)
}

func TestExecute_CancelledRejected(t *testing.T) {
	bookings, orders, payments := fixtures(domain.StatusCancelled, false)
	uc := newTestUseCase(bookings, orders, payments)

	_, err := uc.Execute(context.Background(), &Request{UserID: 42, UserRole: "customer", BookingID: 1})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, payments.payments)
}

func TestExecute_AmountMismatch(t *testing.T) {
	bookings, orders, payments := fixtures(domain.StatusPending, false)
	uc := newTestUseCase(bookings, orders, payments)

	_, err := uc.Execute(context.Background(), &Request{
		UserID: 42, UserRole: "customer", BookingID: 1,
		Amount: ptr.Ptr(10.00),
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, payments.payments)
	assert.Equal(t, domain.StatusPending, bookings.bookings[1].Status)
}

func TestExecute_AccessDenied(t *testing.T) {
	bookings, orders, payments := fixtures(domain.StatusPending, false)
	uc := newTestUseCase(bookings, orders, payments)

	_, err := uc.Execute(context.Background(), &Request{UserID: 99, UserRole: "customer", BookingID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	uc := newTestUseCase(&memBookingRepo{bookings: map[int64]*domain.Booking{}}, &memOrderRepo{orders: map[int64]*domain.Order{}}, &memPaymentRepo{})

	_, err := uc.Execute(context.Background(), &Request{UserID: 42, UserRole: "staff", BookingID: 5})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
