package request_emergency

import (
	"context"

	requestEmergency "github.com/signcraft/scheduling-service/internal/usecase/request_emergency"
)

type RequestEmergencyUseCase interface {
	Execute(ctx context.Context, req *requestEmergency.Request) (*requestEmergency.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
