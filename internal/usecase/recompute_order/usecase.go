package recompute_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/signcraft/scheduling-service/internal/domain"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
)

// UseCase use case для изменения доли депозита с пересчётом заказа
//
// Пересчёт использует замороженные значения бронирования: наценка и
// версия политики не перечитываются из текущей политики магазина.
// Заказ с завершённым платежом пересчитать нельзя.
type UseCase struct {
	bookingRepo BookingRepository
	orderRepo   OrderRepository
	paymentRepo PaymentRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case пересчёта заказа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecomputeOrder: order id=%d, depositPct=%.2f by user=%d", req.OrderID, req.DepositPct, req.UserID)

	if req.OrderID <= 0 {
		return nil, fmt.Errorf("%w: orderID must be positive", ErrInvalidInput)
	}

	if req.UserRole != RoleStaff {
		uc.logger.Warn("RecomputeOrder: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	if req.DepositPct < 0 || req.DepositPct > domain.MaxFeePct {
		uc.logger.Warn("RecomputeOrder: depositPct %.2f out of range", req.DepositPct)
		return nil, fmt.Errorf("%w: depositPct must be between 0 and %.0f", ErrInvalidInput, domain.MaxFeePct)
	}

	var order *domain.Order

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Заказ блокируется (FOR UPDATE) до проверки платежей,
		// чтобы параллельное подтверждение не вклинилось между ними
		o, err := uc.orderRepo.GetByID(txCtx, req.OrderID)
		if err != nil {
			if errors.Is(err, orderRepo.ErrOrderNotFound) {
				uc.logger.Warn("RecomputeOrder: order id=%d not found", req.OrderID)
				return ErrOrderNotFound
			}
			uc.logger.Error("RecomputeOrder: failed to get order id=%d: %v", req.OrderID, err)
			return fmt.Errorf("%w: failed to get order: %w", ErrInternal, err)
		}

		hasPayment, err := uc.paymentRepo.HasCompletedByOrderID(txCtx, o.ID)
		if err != nil {
			uc.logger.Error("RecomputeOrder: failed to check payments for order id=%d: %v", o.ID, err)
			return fmt.Errorf("%w: failed to check payments: %w", ErrInternal, err)
		}
		if hasPayment {
			uc.logger.Warn("RecomputeOrder: order id=%d is locked by a completed payment", o.ID)
			return ErrOrderLocked
		}

		b, err := uc.bookingRepo.GetByID(txCtx, o.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Error("RecomputeOrder: booking id=%d not found for order id=%d", o.BookingID, o.ID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RecomputeOrder: failed to get booking id=%d: %v", o.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		o.DepositPct = req.DepositPct
		o.Apply(domain.ComputeOrderTotals(o.BaseSubtotal, b.UrgentFeePct, o.TaxRate, o.DepositPct, b.IsEmergency))

		if err := uc.orderRepo.UpdateTotals(txCtx, o); err != nil {
			uc.logger.Error("RecomputeOrder: failed to update order id=%d: %v", o.ID, err)
			return fmt.Errorf("%w: failed to update order: %w", ErrInternal, err)
		}

		order = o
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RecomputeOrder: order id=%d recomputed, deposit=%.2f", order.ID, order.DepositAmount)

	return &Response{
		ID:            order.ID,
		BookingID:     order.BookingID,
		QuoteID:       order.QuoteID,
		BaseSubtotal:  order.BaseSubtotal,
		UrgentFeePct:  order.UrgentFeePct,
		TaxRate:       order.TaxRate,
		TotalSubtotal: order.TotalSubtotal,
		TaxAmount:     order.TaxAmount,
		TotalAmount:   order.TotalAmount,
		DepositPct:    order.DepositPct,
		DepositAmount: order.DepositAmount,
		UpdatedAt:     order.UpdatedAt,
	}, nil
}
