package reserve_slot

import (
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	reserveSlot "github.com/signcraft/scheduling-service/internal/usecase/reserve_slot"
	"github.com/signcraft/scheduling-service/pkg/types"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	ShopID     int64  `json:"shopId"`
	QuoteID    int64  `json:"quoteId"`
	CustomerID int64  `json:"customerId"`
	Date       string `json:"date"`      // "2026-09-15"
	StartTime  string `json:"startTime"` // "10:00"
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest(userID int64, userRole string) (*reserveSlot.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &reserveSlot.Request{
		UserID:     userID,
		UserRole:   userRole,
		ShopID:     r.ShopID,
		QuoteID:    r.QuoteID,
		CustomerID: r.CustomerID,
		Date:       date,
		StartTime:  startTime,
	}, nil
}
