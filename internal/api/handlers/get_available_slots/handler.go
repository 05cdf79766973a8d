package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	getAvailableSlots "github.com/signcraft/scheduling-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidShopID    = "некорректный ID магазина"
	msgMissingFrom      = "параметр from обязателен"
	msgMissingTo        = "параметр to обязателен"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidKind      = "некорректный тип слотов, ожидается emergency"
	msgInvalidDateRange = "некорректный период дат"
	msgPolicyNotFound   = "календарная политика не найдена"
)

const kindEmergency = "emergency"

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/available-slots
// Query params: from (required, YYYY-MM-DD), to (required, YYYY-MM-DD),
// kind=emergency (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopIDStr := vars["shopId"]
	shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	fromStr := r.URL.Query().Get("from")
	if fromStr == "" {
		h.logger.Warn("GET /shops/{id}/available-slots - Missing from param: shop_id=%d", shopID)
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}

	toStr := r.URL.Query().Get("to")
	if toStr == "" {
		h.logger.Warn("GET /shops/{id}/available-slots - Missing to param: shop_id=%d", shopID)
		handlers.RespondBadRequest(w, msgMissingTo)
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != kindEmergency {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid kind %q: shop_id=%d", kind, shopID)
		handlers.RespondBadRequest(w, msgInvalidKind)
		return
	}

	useCaseReq, err := ToUseCaseRequest(shopID, fromStr, toStr, kind == kindEmergency)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrPolicyNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Policy not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDateRange):
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid date range: shop_id=%d, from=%s, to=%s",
				shopID, fromStr, toStr)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid input: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /shops/{id}/available-slots - Failed to get slots: shop_id=%d, error=%v",
				shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /shops/{id}/available-slots - Slots retrieved successfully: shop_id=%d, days_count=%d",
		shopID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
