package capacity_summary

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/internal/service/calendar"
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

const (
	msgInvalidShopID  = "некорректный ID магазина"
	msgMissingFrom    = "параметр from обязателен"
	msgMissingTo      = "параметр to обязателен"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgPolicyNotFound = "календарная политика не найдена"
	msgForbidden      = "доступ запрещен"
	msgInvalidRange   = "некорректный период дат"
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

// Handle GET /api/v1/shops/{shopId}/capacity-summary
// Query params: from (required, YYYY-MM-DD), to (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем shopId из URL
	vars := mux.Vars(r)
	shopIDStr := vars["shopId"]

	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/capacity-summary - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /shops/{id}/capacity-summary - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	fromStr := r.URL.Query().Get("from")
	if fromStr == "" {
		h.logger.Warn("GET /shops/{id}/capacity-summary - Missing from param: shop_id=%d", shopID)
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}

	toStr := r.URL.Query().Get("to")
	if toStr == "" {
		h.logger.Warn("GET /shops/{id}/capacity-summary - Missing to param: shop_id=%d", shopID)
		handlers.RespondBadRequest(w, msgMissingTo)
		return
	}

	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/capacity-summary - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/capacity-summary - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.CapacitySummaryRequest{
		Actor:  models.Actor{UserID: userID, Role: userRole},
		ShopID: shopID,
		From:   from,
		To:     to,
	}

	result, err := h.service.CapacitySummary(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrPolicyNotFound):
			h.logger.Warn("GET /shops/{id}/capacity-summary - Policy not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		case errors.Is(err, calendar.ErrAccessDenied):
			h.logger.Warn("GET /shops/{id}/capacity-summary - Access denied: shop_id=%d, user_id=%d",
				shopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/capacity-summary - Invalid date range: shop_id=%d, from=%s, to=%s",
				shopID, fromStr, toStr)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /shops/{id}/capacity-summary - Failed to get summary: shop_id=%d, error=%v",
				shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/capacity-summary - Summary retrieved successfully: shop_id=%d, days_count=%d",
		shopID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
