package request_emergency

import (
	"fmt"
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	"github.com/signcraft/scheduling-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if req.QuoteID <= 0 {
		return fmt.Errorf("%w: quoteID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time", ErrInvalidInput)
	}

	return nil
}

// slotGrid генерирует сетку слотов дня по политике магазина
// Неполный хвостовой слот отбрасывается
func slotGrid(policy *domain.CalendarPolicy) ([]types.TimeString, error) {
	openTime, err := types.NewTimeStringFromMinutes(policy.StartHour * 60)
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromMinutes(policy.EndHour * 60)
	if err != nil {
		return nil, err
	}

	grid := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		slotEnd, err := currentSlot.AddMinutes(policy.SlotDurationMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		grid = append(grid, currentSlot)
		currentSlot = slotEnd
	}

	return grid, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
