package get_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/service/calendar"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgNotFound      = "календарная политика не найдена"
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

// Handle GET /api/v1/shops/{shopId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем shopId из URL
	vars := mux.Vars(r)
	shopIDStr := vars["shopId"]

	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/calendar - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	policy, err := h.service.GetPolicy(r.Context(), shopID)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrPolicyNotFound):
			h.logger.Warn("GET /shops/{id}/calendar - Policy not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /shops/{id}/calendar - Failed to get policy: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/calendar - Policy retrieved successfully: shop_id=%d, version=%d",
		shopID, policy.Version)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
