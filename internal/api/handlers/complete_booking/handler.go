package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/signcraft/scheduling-service/internal/api/handlers"
	"github.com/signcraft/scheduling-service/internal/api/middleware"
	"github.com/signcraft/scheduling-service/internal/service/bookings"
	"github.com/signcraft/scheduling-service/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgCannotComplete   = "бронирование не может быть завершено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/complete - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	userRole, _ := middleware.GetUserRole(r.Context())

	actor := models.Actor{UserID: userID, Role: userRole}

	// Завершаем бронирование (сервис сам проверит роль сотрудника)
	result, err := h.service.Complete(r.Context(), bookingID, actor)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/complete - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/complete - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/complete - Cannot complete: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCannotComplete)

		default:
			h.logger.Error("PATCH /bookings/{id}/complete - Failed to complete booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/complete - Booking completed successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
