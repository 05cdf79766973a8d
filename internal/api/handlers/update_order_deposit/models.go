package update_order_deposit

import (
	recomputeOrder "github.com/signcraft/scheduling-service/internal/usecase/recompute_order"
)

// UpdateOrderDepositRequest HTTP request model
type UpdateOrderDepositRequest struct {
	DepositPct float64 `json:"depositPct"` // Новая доля депозита, 0..100
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *UpdateOrderDepositRequest) ToUseCaseRequest(userID int64, userRole string, orderID int64) *recomputeOrder.Request {
	return &recomputeOrder.Request{
		UserID:     userID,
		UserRole:   userRole,
		OrderID:    orderID,
		DepositPct: r.DepositPct,
	}
}
