package get_customer_bookings

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
)

type BookingService interface {
	GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
