package list_blackout_dates

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

type CalendarService interface {
	ListBlackoutDates(ctx context.Context, req *models.ListBlackoutsRequest) (*models.BlackoutListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
