package list_blackout_dates

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/shops/{shopId}/blackout-dates
// Query params: from (optional, YYYY-MM-DD), to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем shopId из URL
	vars := mux.Vars(r)
	shopIDStr := vars["shopId"]

	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/blackout-dates - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	req := &models.ListBlackoutsRequest{ShopID: shopID}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/blackout-dates - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &from
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/blackout-dates - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &to
	}

	result, err := h.service.ListBlackoutDates(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /shops/{id}/blackout-dates - Failed to list blackout dates: shop_id=%d, error=%v",
			shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /shops/{id}/blackout-dates - Blackout dates retrieved successfully: shop_id=%d, count=%d",
		shopID, len(result.BlackoutDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
