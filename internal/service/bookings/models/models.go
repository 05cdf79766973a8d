package models

import (
	"errors"
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Роли пользователей, приходящие из API Gateway
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

// Actor аутентифицированный пользователь запроса
type Actor struct {
	UserID int64
	Role   string
}

// IsStaff возвращает true для сотрудников мастерской
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              Actor
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	Actor      Actor
	CustomerID int64
	Status     *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	ShopID          int64   `json:"shopId"`
	QuoteID         int64   `json:"quoteId"`
	CustomerID      int64   `json:"customerId"`
	BookingDate     string  `json:"bookingDate"` // "2026-09-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	IsEmergency     bool    `json:"isEmergency"`
	UrgentFeePct    float64 `json:"urgentFeePct"`
	PolicyVersion   int64   `json:"policyVersion"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID         int64     `json:"id"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recordedAt"`
}

// OrderResponse ответ с финансовой проекцией заказа
type OrderResponse struct {
	ID            int64   `json:"id"`
	BookingID     int64   `json:"bookingId"`
	QuoteID       int64   `json:"quoteId"`
	BaseSubtotal  float64 `json:"baseSubtotal"`
	UrgentFeePct  float64 `json:"urgentFeePct"`
	TaxRate       float64 `json:"taxRate"`
	TotalSubtotal float64 `json:"totalSubtotal"`
	TaxAmount     float64 `json:"taxAmount"`
	TotalAmount   float64 `json:"totalAmount"`
	DepositPct    float64 `json:"depositPct"`
	DepositAmount float64 `json:"depositAmount"`
	AmountPaid    float64 `json:"amountPaid"`
	BalanceDue    float64 `json:"balanceDue"`

	Payments []PaymentResponse `json:"payments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ShopID:             b.ShopID,
		QuoteID:            b.QuoteID,
		CustomerID:         b.CustomerID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		IsEmergency:        b.IsEmergency,
		UrgentFeePct:       b.UrgentFeePct,
		PolicyVersion:      b.PolicyVersion,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainOrder конвертирует заказ с платежами в DTO
func FromDomainOrder(o *domain.Order, payments []*domain.Payment, amountPaid float64) *OrderResponse {
	if o == nil {
		return nil
	}

	resp := &OrderResponse{
		ID:            o.ID,
		BookingID:     o.BookingID,
		QuoteID:       o.QuoteID,
		BaseSubtotal:  o.BaseSubtotal,
		UrgentFeePct:  o.UrgentFeePct,
		TaxRate:       o.TaxRate,
		TotalSubtotal: o.TotalSubtotal,
		TaxAmount:     o.TaxAmount,
		TotalAmount:   o.TotalAmount,
		DepositPct:    o.DepositPct,
		DepositAmount: o.DepositAmount,
		AmountPaid:    amountPaid,
		BalanceDue:    o.BalanceDue(amountPaid),
		Payments:      make([]PaymentResponse, 0, len(payments)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	for _, p := range payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:         p.ID,
			Amount:     p.Amount,
			Status:     string(p.Status),
			RecordedAt: p.RecordedAt,
		})
	}

	return resp
}
