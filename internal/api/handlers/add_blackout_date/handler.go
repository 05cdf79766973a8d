package add_blackout_date

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
	msgAlreadyExists      = "blackout-дата уже существует"
	msgInvalidData        = "некорректные данные blackout-даты"
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

// Handle POST /api/v1/shops/{shopId}/blackout-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем shopId из URL
	vars := mux.Vars(r)
	shopIDStr := vars["shopId"]

	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /shops/{id}/blackout-dates - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /shops/{id}/blackout-dates - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	// Декодируем body
	var req AddBlackoutDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops/{id}/blackout-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actor := models.Actor{UserID: userID, Role: userRole}
	serviceReq := req.ToServiceRequest(actor, shopID)

	// Добавляем blackout-дату (сервис сам проверит роль сотрудника)
	result, err := h.service.AddBlackoutDate(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("POST /shops/{id}/blackout-dates - Access denied: shop_id=%d, user_id=%d",
				shopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrBlackoutExists):
			h.logger.Warn("POST /shops/{id}/blackout-dates - Blackout already exists: shop_id=%d, date=%s",
				shopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyExists)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("POST /shops/{id}/blackout-dates - Invalid data: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /shops/{id}/blackout-dates - Failed to add blackout date: shop_id=%d, error=%v",
				shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shops/{id}/blackout-dates - Blackout date added successfully: shop_id=%d, blackout_id=%d",
		shopID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
