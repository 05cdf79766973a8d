package calendar

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда у магазина нет календарной политики
	ErrPolicyNotFound = errors.New("calendar.repository: policy not found")

	// ErrBlackoutNotFound возвращается, когда blackout-дата не найдена
	ErrBlackoutNotFound = errors.New("calendar.repository: blackout date not found")

	// ErrBlackoutExists возвращается при попытке добавить дубликат blackout-даты
	ErrBlackoutExists = errors.New("calendar.repository: blackout date already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
