package get_available_slots

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда у магазина нет календарной политики
	ErrPolicyNotFound = errors.New("calendar policy not found")

	// ErrInvalidDateRange возвращается при некорректном диапазоне дат
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
