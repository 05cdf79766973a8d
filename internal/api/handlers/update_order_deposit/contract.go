package update_order_deposit

import (
	"context"

	recomputeOrder "github.com/signcraft/scheduling-service/internal/usecase/recompute_order"
)

type RecomputeOrderUseCase interface {
	Execute(ctx context.Context, req *recomputeOrder.Request) (*recomputeOrder.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
