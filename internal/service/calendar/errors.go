package calendar

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда у магазина нет календарной политики
	ErrPolicyNotFound = errors.New("calendar policy not found")

	// ErrBlackoutNotFound возвращается, когда blackout-дата не найдена
	ErrBlackoutNotFound = errors.New("blackout date not found")

	// ErrBlackoutExists возвращается при попытке добавить дубликат blackout-даты
	ErrBlackoutExists = errors.New("blackout date already exists")

	// ErrInvalidConfiguration возвращается при некорректной календарной политике
	// Прежняя политика при этом остаётся без изменений
	ErrInvalidConfiguration = errors.New("invalid calendar configuration")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
