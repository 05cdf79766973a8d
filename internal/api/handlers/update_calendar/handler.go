package update_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	"github.com/signcraft/scheduling-service/internal/service/calendar"
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

const (
	msgInvalidShopID      = "некорректный ID магазина"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidConfig      = "некорректная календарная политика"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/shops/{shopId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем shopId из URL
	vars := mux.Vars(r)
	shopIDStr := vars["shopId"]

	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/calendar - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /shops/{id}/calendar - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	// Декодируем body
	var req UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id}/calendar - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := models.Actor{UserID: userID, Role: userRole}
	serviceReq := req.ToServiceRequest(actor, shopID)

	// Заменяем политику (сервис сам проверит роль сотрудника и валидность)
	result, err := h.service.ReplacePolicy(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("PUT /shops/{id}/calendar - Access denied: shop_id=%d, user_id=%d", shopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrInvalidConfiguration):
			h.logger.Warn("PUT /shops/{id}/calendar - Invalid configuration: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		default:
			h.logger.Error("PUT /shops/{id}/calendar - Failed to replace policy: shop_id=%d, error=%v",
				shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id}/calendar - Policy replaced successfully: shop_id=%d, version=%d",
		shopID, result.Version)
	handlers.RespondJSON(w, http.StatusOK, result)
}
