package add_blackout_date

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

type CalendarService interface {
	AddBlackoutDate(ctx context.Context, req *models.AddBlackoutRequest) (*models.BlackoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
