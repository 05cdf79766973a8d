package remove_blackout_date

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
	msgInvalidShopID     = "некорректный ID магазина"
	msgInvalidBlackoutID = "некорректный ID blackout-даты"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "blackout-дата не найдена"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/shops/{shopId}/blackout-dates/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopIDStr := vars["shopId"]
	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shops/{id}/blackout-dates/{id} - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	blackoutIDStr := vars["blackoutId"]
	blackoutID, err := strconv.ParseInt(blackoutIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shops/{id}/blackout-dates/{id} - Invalid blackout ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /shops/{id}/blackout-dates/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	actor := models.Actor{UserID: userID, Role: userRole}

	// Удаляем blackout-дату (сервис сам проверит роль сотрудника)
	err = h.service.RemoveBlackoutDate(r.Context(), shopID, blackoutID, actor)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /shops/{id}/blackout-dates/{id} - Blackout not found: shop_id=%d, blackout_id=%d",
				shopID, blackoutID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("DELETE /shops/{id}/blackout-dates/{id} - Access denied: shop_id=%d, user_id=%d",
				shopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /shops/{id}/blackout-dates/{id} - Failed to remove blackout date: shop_id=%d, blackout_id=%d, error=%v",
				shopID, blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shops/{id}/blackout-dates/{id} - Blackout date removed successfully: shop_id=%d, blackout_id=%d",
		shopID, blackoutID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
