package reserve_slot

import (
	"time"

	"github.com/signcraft/scheduling-service/pkg/types"
)

// Роли пользователей, приходящие из API Gateway
const (
	RoleStaff = "staff"
)

// Request модель запроса на резервирование регулярного слота
type Request struct {
	UserID     int64            // ID аутентифицированного пользователя
	UserRole   string           // Роль пользователя ("customer" или "staff")
	ShopID     int64            // ID магазина
	QuoteID    int64            // ID согласованной сметы
	CustomerID int64            // ID клиента, на которого оформляется бронирование
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с созданным бронированием и заказом
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
	PolicyVersion   int64            `json:"policyVersion"`

	Order OrderSummary `json:"order"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderSummary финансовая проекция созданного бронирования
type OrderSummary struct {
	ID            int64   `json:"id"`
	BaseSubtotal  float64 `json:"baseSubtotal"`
	UrgentFeePct  float64 `json:"urgentFeePct"`
	TaxRate       float64 `json:"taxRate"`
	TotalSubtotal float64 `json:"totalSubtotal"`
	TaxAmount     float64 `json:"taxAmount"`
	TotalAmount   float64 `json:"totalAmount"`
	DepositPct    float64 `json:"depositPct"`
	DepositAmount float64 `json:"depositAmount"`
}
