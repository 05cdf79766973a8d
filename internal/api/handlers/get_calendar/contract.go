package get_calendar

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

type CalendarService interface {
	GetPolicy(ctx context.Context, shopID int64) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
