package request_emergency

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда у магазина нет календарной политики
	ErrPolicyNotFound = errors.New("calendar policy not found")

	// ErrQuoteNotFound возвращается, когда смета не найдена
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrRegularCapacityAvailable возвращается, когда регулярный пул ещё не
	// исчерпан: аварийный overflow предлагается только после него
	ErrRegularCapacityAvailable = errors.New("regular capacity is still available")

	// ErrEmergencyCapacityExhausted возвращается при исчерпанном аварийном пуле
	ErrEmergencyCapacityExhausted = errors.New("emergency capacity exhausted")

	// ErrSlotNoLongerAvailable возвращается, когда аварийный слот занят
	ErrSlotNoLongerAvailable = errors.New("slot is no longer available")

	// ErrShopClosed возвращается, когда магазин не работает в указанный день
	ErrShopClosed = errors.New("shop is closed on this date")

	// ErrBlackoutDate возвращается при попытке бронирования на blackout-дату
	ErrBlackoutDate = errors.New("date is blacked out")

	// ErrInvalidSlot возвращается, когда время не совпадает с сеткой слотов
	ErrInvalidSlot = errors.New("time does not match the slot grid")

	// ErrDateInPast возвращается при попытке бронирования на прошедшую дату
	ErrDateInPast = errors.New("booking date is in the past")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
