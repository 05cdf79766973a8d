package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/signcraft/scheduling-service/internal/domain"
	bookingRepo "github.com/signcraft/scheduling-service/internal/infra/storage/booking"
	orderRepo "github.com/signcraft/scheduling-service/internal/infra/storage/order"
	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
)

// Service сервис для работы с жизненным циклом бронирований
type Service struct {
	bookingRepo BookingRepository
	orderRepo   OrderRepository
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свои бронирования, сотрудник - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if !req.Actor.IsStaff() && req.Actor.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: user=%d requested bookings of customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Операция идемпотентна: повторная отмена уже отменённого бронирования
// возвращает успех и ничего не меняет. Завершённое бронирование отменить нельзя.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.checkBookingAccess(booking, req.Actor); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.Actor.UserID, bookingID)
		return err
	}

	// Идемпотентность: уже отменено - успех без изменений
	if booking.Status == domain.StatusCancelled {
		s.logger.Info("Cancel: booking id=%d already cancelled, no-op", bookingID)
		return nil
	}

	if !booking.CanTransitionTo(domain.StatusCancelled) {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	err = s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			// Статус изменился параллельно. Перечитываем: если бронирование
			// успели отменить - идемпотентный успех, иначе переход запрещён.
			current, getErr := s.getBooking(ctx, bookingID)
			if getErr != nil {
				return getErr
			}
			if current.Status == domain.StatusCancelled {
				s.logger.Info("Cancel: booking id=%d cancelled concurrently", bookingID)
				return nil
			}
			s.logger.Warn("Cancel: booking id=%d moved to status=%s concurrently", bookingID, current.Status)
			return ErrInvalidTransition
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled, slot released", bookingID)
	return nil
}

// Complete переводит бронирование CONFIRMED -> COMPLETED
// Доступно только сотрудникам
func (s *Service) Complete(ctx context.Context, bookingID int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by user=%d", bookingID, actor.UserID)

	if !actor.IsStaff() {
		s.logger.Warn("Complete: user=%d is not staff", actor.UserID)
		return nil, ErrAccessDenied
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("Complete: booking id=%d cannot be completed, status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	err = s.bookingRepo.UpdateStatusFrom(ctx, bookingID, domain.StatusConfirmed, domain.StatusCompleted)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			s.logger.Warn("Complete: booking id=%d status changed concurrently", bookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("Complete: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCompleted

	s.logger.Info("Complete: booking id=%d completed", bookingID)
	return models.FromDomainBooking(booking), nil
}

// GetOrder получает финансовую проекцию заказа с платежами и остатком к оплате
func (s *Service) GetOrder(ctx context.Context, orderID int64, actor models.Actor) (*models.OrderResponse, error) {
	s.logger.Info("GetOrder: fetching order id=%d for user=%d", orderID, actor.UserID)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("GetOrder: order id=%d not found", orderID)
			return nil, ErrOrderNotFound
		}
		s.logger.Error("GetOrder: repository error for order id=%d: %v", orderID, err)
		return nil, fmt.Errorf("%w: GetOrder - repository error: %v", ErrInternal, err)
	}

	// Права доступа проверяем по владельцу бронирования
	booking, err := s.getBooking(ctx, order.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBookingAccess(booking, actor); err != nil {
		s.logger.Warn("GetOrder: access denied for user=%d to order id=%d", actor.UserID, orderID)
		return nil, err
	}

	payments, err := s.paymentRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("GetOrder: failed to list payments for order id=%d: %v", orderID, err)
		return nil, fmt.Errorf("%w: GetOrder - failed to list payments: %v", ErrInternal, err)
	}

	amountPaid, err := s.paymentRepo.SumCompletedByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("GetOrder: failed to sum payments for order id=%d: %v", orderID, err)
		return nil, fmt.Errorf("%w: GetOrder - failed to sum payments: %v", ErrInternal, err)
	}

	return models.FromDomainOrder(order, payments, amountPaid), nil
}

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("getBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkBookingAccess проверяет права доступа к бронированию
// Сотрудник имеет доступ ко всем бронированиям, клиент только к своим
func (s *Service) checkBookingAccess(booking *domain.Booking, actor models.Actor) error {
	if actor.IsStaff() {
		return nil
	}
	if booking.CustomerID == actor.UserID {
		return nil
	}
	return ErrAccessDenied
}
