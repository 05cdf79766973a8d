package confirm_booking

import (
	"time"

	"github.com/signcraft/scheduling-service/pkg/types"
)

// Роли пользователей, приходящие из API Gateway
const (
	RoleStaff = "staff"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	UserID    int64  // ID аутентифицированного пользователя
	UserRole  string // Роль пользователя ("customer" или "staff")
	BookingID int64  // ID бронирования

	// Amount подтверждаемая сумма депозита. Если указана, должна
	// совпадать с рассчитанным депозитом заказа.
	Amount *float64 `json:"amount,omitempty"`
}

// Response модель ответа с подтверждённым бронированием
type Response struct {
	ID              int64            `json:"id"`
	ShopID          int64            `json:"shopId"`
	QuoteID         int64            `json:"quoteId"`
	CustomerID      int64            `json:"customerId"`
	BookingDate     time.Time        `json:"bookingDate"`
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	IsEmergency     bool             `json:"isEmergency"`

	OrderID       int64   `json:"orderId"`
	TotalAmount   float64 `json:"totalAmount"`
	DepositAmount float64 `json:"depositAmount"`
}
