package get_available_slots

import (
	"time"

	"github.com/signcraft/scheduling-service/internal/domain"
	getAvailableSlots "github.com/signcraft/scheduling-service/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ShopID int64      `json:"shopId"`
	Days   []DaySlots `json:"days"`
}

// DaySlots слоты одного дня периода
type DaySlots struct {
	Date  string          `json:"date"`
	Slots []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Kind            string `json:"kind"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]DaySlots, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]AvailableSlot, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = AvailableSlot{
				StartTime:       slot.StartTime.String(),
				EndTime:         slot.EndTime.String(),
				DurationMinutes: slot.DurationMinutes,
				Kind:            slot.Kind,
			}
		}
		days[i] = DaySlots{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		}
	}

	return &AvailableSlotsResponse{
		ShopID: resp.ShopID,
		Days:   days,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(shopID int64, fromStr, toStr string, emergencyRequested bool) (*getAvailableSlots.Request, error) {
	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		return nil, err
	}

	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ShopID:             shopID,
		From:               from,
		To:                 to,
		EmergencyRequested: emergencyRequested,
	}, nil
}
