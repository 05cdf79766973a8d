package confirm_booking

import (
	confirmBooking "github.com/signcraft/scheduling-service/internal/usecase/confirm_booking"
)

// ConfirmBookingRequest HTTP request model
type ConfirmBookingRequest struct {
	// Amount подтверждаемая сумма депозита. Если указана, должна
	// совпадать с рассчитанным депозитом заказа.
	Amount *float64 `json:"amount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *ConfirmBookingRequest) ToUseCaseRequest(userID int64, userRole string, bookingID int64) *confirmBooking.Request {
	return &confirmBooking.Request{
		UserID:    userID,
		UserRole:  userRole,
		BookingID: bookingID,
		Amount:    r.Amount,
	}
}
