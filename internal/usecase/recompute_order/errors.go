package recompute_order

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("order not found")

	// ErrBookingNotFound возвращается, когда бронирование заказа не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrOrderLocked возвращается при попытке пересчёта заказа с завершённым
	// платежом. Блокировка fail-closed: оплаченные суммы не пересчитываются.
	ErrOrderLocked = errors.New("order is locked by a completed payment")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
