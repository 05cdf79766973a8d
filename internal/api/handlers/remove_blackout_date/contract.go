package remove_blackout_date

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

type CalendarService interface {
	RemoveBlackoutDate(ctx context.Context, shopID, blackoutID int64, actor models.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
