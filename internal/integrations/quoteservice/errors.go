package quoteservice

import "errors"

var (
	// ErrQuoteNotFound возвращается, когда смета не найдена
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("quoteservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("quoteservice client: invalid response")
)
