package get_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	"github.com/signcraft/scheduling-service/internal/service/bookings"
	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
)

const (
	msgInvalidOrderID = "некорректный ID заказа"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "заказ не найден"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/orders/{orderId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем orderId из URL
	vars := mux.Vars(r)
	orderIDStr := vars["orderId"]

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /orders/{id} - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /orders/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	actor := models.Actor{UserID: userID, Role: userRole}

	// Получаем заказ (сервис сам проверит права через бронирование)
	order, err := h.service.GetOrder(r.Context(), orderID, actor)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrOrderNotFound), errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /orders/{id} - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /orders/{id} - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /orders/{id} - Failed to get order: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /orders/{id} - Order retrieved successfully: order_id=%d, user_id=%d", orderID, userID)
	handlers.RespondJSON(w, http.StatusOK, order)
}
