package confirm_booking

import (
	"context"

	confirmBooking "github.com/signcraft/scheduling-service/internal/usecase/confirm_booking"
)

type ConfirmBookingUseCase interface {
	Execute(ctx context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
