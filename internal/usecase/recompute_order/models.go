package recompute_order

import "time"

// Роли пользователей, приходящие из API Gateway
const (
	RoleStaff = "staff"
)

// Request модель запроса на изменение доли депозита заказа
type Request struct {
	UserID     int64   // ID аутентифицированного пользователя
	UserRole   string  // Роль пользователя ("customer" или "staff")
	OrderID    int64   // ID заказа
	DepositPct float64 `json:"depositPct"` // Новая доля депозита, 0..100
}

// Response модель ответа с пересчитанным заказом
type Response struct {
	ID            int64     `json:"id"`
	BookingID     int64     `json:"bookingId"`
	QuoteID       int64     `json:"quoteId"`
	BaseSubtotal  float64   `json:"baseSubtotal"`
	UrgentFeePct  float64   `json:"urgentFeePct"`
	TaxRate       float64   `json:"taxRate"`
	TotalSubtotal float64   `json:"totalSubtotal"`
	TaxAmount     float64   `json:"taxAmount"`
	TotalAmount   float64   `json:"totalAmount"`
	DepositPct    float64   `json:"depositPct"`
	DepositAmount float64   `json:"depositAmount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
