package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	reserveSlot "github.com/signcraft/scheduling-service/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgPolicyNotFound     = "календарная политика не найдена"
	msgQuoteNotFound      = "смета не найдена"
	msgSlotTaken          = "слот уже занят"
	msgShopClosed         = "магазин не работает в эту дату"
	msgBlackoutDate       = "дата недоступна для бронирования"
	msgInvalidSlot        = "время не совпадает с сеткой слотов"
	msgDateInPast         = "дата бронирования в прошлом"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные бронирования"
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	// Декодируем body
	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, userRole)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrPolicyNotFound):
			h.logger.Warn("POST /bookings - Policy not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		case errors.Is(err, reserveSlot.ErrQuoteNotFound):
			h.logger.Warn("POST /bookings - Quote not found: quote_id=%d", req.QuoteID)
			handlers.RespondNotFound(w, msgQuoteNotFound)

		case errors.Is(err, reserveSlot.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /bookings - Slot taken: shop_id=%d, date=%s, start_time=%s",
				req.ShopID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, reserveSlot.ErrShopClosed):
			h.logger.Warn("POST /bookings - Shop closed: shop_id=%d, date=%s", req.ShopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgShopClosed)

		case errors.Is(err, reserveSlot.ErrBlackoutDate):
			h.logger.Warn("POST /bookings - Blackout date: shop_id=%d, date=%s", req.ShopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgBlackoutDate)

		case errors.Is(err, reserveSlot.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: shop_id=%d, start_time=%s", req.ShopID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, reserveSlot.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: shop_id=%d, date=%s", req.ShopID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, reserveSlot.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%d, customer_id=%d", userID, req.CustomerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid data: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /bookings - Failed to reserve slot: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
