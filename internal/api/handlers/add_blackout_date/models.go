package add_blackout_date

import (
	"github.com/signcraft/scheduling-service/internal/service/calendar/models"
)

// AddBlackoutDateRequest HTTP request model
type AddBlackoutDateRequest struct {
	Date   string  `json:"date"` // "2026-09-15"
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddBlackoutDateRequest) ToServiceRequest(actor models.Actor, shopID int64) *models.AddBlackoutRequest {
	return &models.AddBlackoutRequest{
		Actor:  actor,
		ShopID: shopID,
		Date:   r.Date,
		Reason: r.Reason,
	}
}
