package get_available_slots

import (
	"fmt"
)

// maxRangeDays ограничивает период запроса доступности
const maxRangeDays = 92

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}

	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to is before from", ErrInvalidDateRange)
	}

	if int(req.To.Sub(req.From).Hours()/24) > maxRangeDays {
		return fmt.Errorf("%w: period longer than %d days", ErrInvalidDateRange, maxRangeDays)
	}

	return nil
}
