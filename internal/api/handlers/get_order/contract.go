package get_order

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
)

type BookingService interface {
	GetOrder(ctx context.Context, orderID int64, actor models.Actor) (*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
