package capacity_summary

import (
	"context"

	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

type CalendarService interface {
	CapacitySummary(ctx context.Context, req *models.CapacitySummaryRequest) (*models.CapacitySummaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
