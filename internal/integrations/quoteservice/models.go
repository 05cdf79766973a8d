package quoteservice

// Quote модель сметы из QuoteService
type Quote struct {
	ID           int64   `json:"id"`
	CustomerID   int64   `json:"customer_id"`
	BaseSubtotal float64 `json:"base_subtotal"`
	TaxRate      float64 `json:"tax_rate"`
	Status       string  `json:"status"`
}

// Logger интерфейс логгера для клиента
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// ErrorResponse модель ошибки от QuoteService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
