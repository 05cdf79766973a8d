package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/signcraft/scheduling-service/internal/domain"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
)

// UseCase use case для подтверждения бронирования
//
// Подтверждение пересчитывает заказ по замороженным значениям, фиксирует
// платеж депозита и переводит бронирование PENDING -> CONFIRMED в одной
// транзакции. Повторное подтверждение уже подтверждённого бронирования
// возвращает успех без изменений.
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

// Execute выполняет use case подтверждения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking id=%d by user=%d", req.BookingID, req.UserID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	var booking *domain.Booking
	var order *domain.Order

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ConfirmBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ConfirmBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if req.UserRole != RoleStaff && b.CustomerID != req.UserID {
			uc.logger.Warn("ConfirmBooking: access denied for user=%d to booking id=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		o, err := uc.orderRepo.GetByBookingID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, orderRepo.ErrOrderNotFound) {
				uc.logger.Error("ConfirmBooking: order not found for booking id=%d", req.BookingID)
				return ErrOrderNotFound
			}
			uc.logger.Error("ConfirmBooking: failed to get order for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get order: %w", ErrInternal, err)
		}

		// Идемпотентность: уже подтверждено - успех без изменений
		if b.Status == domain.StatusConfirmed {
			uc.logger.Info("ConfirmBooking: booking id=%d already confirmed, no-op", req.BookingID)
			booking = b
			order = o
			return nil
		}

		if !b.CanTransitionTo(domain.StatusConfirmed) {
			uc.logger.Warn("ConfirmBooking: booking id=%d cannot be confirmed, status=%s", req.BookingID, b.Status)
			return ErrInvalidTransition
		}

		hasPayment, err := uc.paymentRepo.HasCompletedByOrderID(txCtx, o.ID)
		if err != nil {
			uc.logger.Error("ConfirmBooking: failed to check payments for order id=%d: %v", o.ID, err)
			return fmt.Errorf("%w: failed to check payments: %w", ErrInternal, err)
		}

		// Пересчёт по замороженным значениям до фиксации платежа.
		// После завершённого платежа заказ не пересчитывается.
		if !hasPayment {
			o.Apply(domain.ComputeOrderTotals(o.BaseSubtotal, b.UrgentFeePct, o.TaxRate, o.DepositPct, b.IsEmergency))
			if err := uc.orderRepo.UpdateTotals(txCtx, o); err != nil {
				uc.logger.Error("ConfirmBooking: failed to update order id=%d: %v", o.ID, err)
				return fmt.Errorf("%w: failed to update order: %w", ErrInternal, err)
			}
		}

		if req.Amount != nil && math.Abs(*req.Amount-o.DepositAmount) > 0.005 {
			uc.logger.Warn("ConfirmBooking: amount %.2f does not match deposit %.2f for order id=%d",
				*req.Amount, o.DepositAmount, o.ID)
			return ErrInvalidAmount
		}

		if !hasPayment {
			_, err = uc.paymentRepo.Create(txCtx, &domain.Payment{
				OrderID: o.ID,
				Amount:  o.DepositAmount,
				Status:  domain.PaymentCompleted,
			})
			if err != nil {
				uc.logger.Error("ConfirmBooking: failed to record deposit for order id=%d: %v", o.ID, err)
				return fmt.Errorf("%w: failed to record deposit: %w", ErrInternal, err)
			}
		}

		err = uc.bookingRepo.UpdateStatusFrom(txCtx, req.BookingID, domain.StatusPending, domain.StatusConfirmed)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStaleStatus) {
				uc.logger.Warn("ConfirmBooking: booking id=%d status changed concurrently", req.BookingID)
				return ErrInvalidTransition
			}
			uc.logger.Error("ConfirmBooking: failed to update status for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		b.Status = domain.StatusConfirmed
		booking = b
		order = o
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmBooking: booking id=%d confirmed, deposit=%.2f", booking.ID, order.DepositAmount)

	return &Response{
		ID:              booking.ID,
		ShopID:          booking.ShopID,
		QuoteID:         booking.QuoteID,
		CustomerID:      booking.CustomerID,
		BookingDate:     booking.BookingDate,
		StartTime:       booking.StartTime,
		DurationMinutes: booking.DurationMinutes,
		Status:          string(booking.Status),
		IsEmergency:     booking.IsEmergency,
		OrderID:         order.ID,
		TotalAmount:     order.TotalAmount,
		DepositAmount:   order.DepositAmount,
	}, nil
}
