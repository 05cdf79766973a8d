package request_emergency

import (
	"errors"
	"net/http"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	requestEmergency "github.com/signcraft/scheduling-service/internal/usecase/request_emergency"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgPolicyNotFound     = "календарная политика не найдена"
	msgQuoteNotFound      = "смета не найдена"
	msgRegularAvailable   = "регулярные слоты еще доступны"
	msgEmergencyExhausted = "аварийные слоты на эту дату исчерпаны"
	msgSlotTaken          = "слот уже занят"
	msgShopClosed         = "магазин не работает в эту дату"
	msgBlackoutDate       = "дата недоступна для бронирования"
	msgInvalidSlot        = "время не совпадает с сеткой слотов"
	msgDateInPast         = "дата бронирования в прошлом"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные бронирования"
)

type Handler struct {
	useCase RequestEmergencyUseCase
	logger  Logger
}

func NewHandler(useCase RequestEmergencyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/emergency
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/emergency - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	// Декодируем body
	var req RequestEmergencyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/emergency - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, userRole)
	if err != nil {
		h.logger.Warn("POST /bookings/emergency - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, requestEmergency.ErrPolicyNotFound):
			h.logger.Warn("POST /bookings/emergency - Policy not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		case errors.Is(err, requestEmergency.ErrQuoteNotFound):
			h.logger.Warn("POST /bookings/emergency - Quote not found: quote_id=%d", req.QuoteID)
			handlers.RespondNotFound(w, msgQuoteNotFound)

		case errors.Is(err, requestEmergency.ErrRegularCapacityAvailable):
			h.logger.Warn("POST /bookings/emergency - Regular capacity available: shop_id=%d, date=%s",
				req.ShopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgRegularAvailable)

		case errors.Is(err, requestEmergency.ErrEmergencyCapacityExhausted):
			h.logger.Warn("POST /bookings/emergency - Emergency capacity exhausted: shop_id=%d, date=%s",
				req.ShopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgEmergencyExhausted)

		case errors.Is(err, requestEmergency.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /bookings/emergency - Slot taken: shop_id=%d, date=%s, start_time=%s",
				req.ShopID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, requestEmergency.ErrShopClosed):
			h.logger.Warn("POST /bookings/emergency - Shop closed: shop_id=%d, date=%s", req.ShopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgShopClosed)

		case errors.Is(err, requestEmergency.ErrBlackoutDate):
			h.logger.Warn("POST /bookings/emergency - Blackout date: shop_id=%d, date=%s", req.ShopID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgBlackoutDate)

		case errors.Is(err, requestEmergency.ErrInvalidSlot):
			h.logger.Warn("POST /bookings/emergency - Invalid slot: shop_id=%d, start_time=%s",
				req.ShopID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, requestEmergency.ErrDateInPast):
			h.logger.Warn("POST /bookings/emergency - Date in past: shop_id=%d, date=%s", req.ShopID, req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, requestEmergency.ErrAccessDenied):
			h.logger.Warn("POST /bookings/emergency - Access denied: user_id=%d, customer_id=%d",
				userID, req.CustomerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requestEmergency.ErrInvalidInput):
			h.logger.Warn("POST /bookings/emergency - Invalid data: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /bookings/emergency - Failed to create emergency booking: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/emergency - Emergency booking created successfully: booking_id=%d, user_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
