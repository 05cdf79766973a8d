package update_order_deposit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	recomputeOrder "github.com/signcraft/scheduling-service/internal/usecase/recompute_order"
)

const (
	msgInvalidOrderID     = "некорректный ID заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заказ не найден"
	msgOrderLocked        = "заказ заблокирован завершенным платежом"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректная доля депозита"
)

type Handler struct {
	useCase RecomputeOrderUseCase
	logger  Logger
}

func NewHandler(useCase RecomputeOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/orders/{orderId}/deposit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем orderId из URL
	vars := mux.Vars(r)
	orderIDStr := vars["orderId"]

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /orders/{id}/deposit - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /orders/{id}/deposit - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	// Декодируем body
	var req UpdateOrderDepositRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /orders/{id}/deposit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(userID, userRole, orderID)

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, recomputeOrder.ErrOrderNotFound), errors.Is(err, recomputeOrder.ErrBookingNotFound):
			h.logger.Warn("PATCH /orders/{id}/deposit - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, recomputeOrder.ErrOrderLocked):
			h.logger.Warn("PATCH /orders/{id}/deposit - Order locked: order_id=%d", orderID)
			handlers.RespondError(w, http.StatusLocked, msgOrderLocked)

		case errors.Is(err, recomputeOrder.ErrAccessDenied):
			h.logger.Warn("PATCH /orders/{id}/deposit - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, recomputeOrder.ErrInvalidInput):
			h.logger.Warn("PATCH /orders/{id}/deposit - Invalid data: order_id=%d, error=%v", orderID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /orders/{id}/deposit - Failed to recompute order: order_id=%d, error=%v",
				orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /orders/{id}/deposit - Deposit updated successfully: order_id=%d, deposit_pct=%.2f",
		orderID, result.DepositPct)
	handlers.RespondJSON(w, http.StatusOK, result)
}
