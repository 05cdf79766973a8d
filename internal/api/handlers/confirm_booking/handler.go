package confirm_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	confirmBooking "github.com/signcraft/scheduling-service/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBookingNotFound    = "бронирование не найдено"
	msgOrderNotFound      = "заказ не найден"
	msgCannotConfirm      = "бронирование не может быть подтверждено"
	msgAmountMismatch     = "сумма не совпадает с рассчитанным депозитом"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные подтверждения"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	// Декодируем body (сумма опциональна, пустое тело допустимо)
	var req ConfirmBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(userID, userRole, bookingID)

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/confirm - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, confirmBooking.ErrOrderNotFound):
			h.logger.Warn("POST /bookings/{id}/confirm - Order not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, confirmBooking.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{id}/confirm - Cannot confirm: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCannotConfirm)

		case errors.Is(err, confirmBooking.ErrInvalidAmount):
			h.logger.Warn("POST /bookings/{id}/confirm - Amount mismatch: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, confirmBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/confirm - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/confirm - Invalid data: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /bookings/{id}/confirm - Failed to confirm booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/confirm - Booking confirmed successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
