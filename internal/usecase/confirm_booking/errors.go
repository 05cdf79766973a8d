package confirm_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrOrderNotFound возвращается, когда заказ бронирования не найден
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInvalidAmount возвращается, когда сумма платежа не совпадает с депозитом
	ErrInvalidAmount = errors.New("payment amount does not match the deposit")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
