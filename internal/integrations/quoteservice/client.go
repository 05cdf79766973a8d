package quoteservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с QuoteService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента QuoteService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetQuote получает смету по ID
func (c *Client) GetQuote(ctx context.Context, quoteID int64) (*Quote, error) {
	url := fmt.Sprintf("%s/internal/quotes/%d", c.baseURL, quoteID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid quote ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrQuoteNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if quote.BaseSubtotal < 0 || quote.TaxRate < 0 {
		return nil, fmt.Errorf("%w: negative amounts in quote %d", ErrInvalidResponse, quoteID)
	}

	c.log.Info("Fetched quote id=%d, customer_id=%d, base_subtotal=%.2f", quote.ID, quote.CustomerID, quote.BaseSubtotal)

	return &quote, nil
}
