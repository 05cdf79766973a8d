package get_available_slots

import (
	"time"

	"github.com/signcraft/scheduling-service/pkg/types"
)

// Request модель запроса на получение доступных слотов за период
type Request struct {
	ShopID int64     // ID магазина
	From   time.Time // Начало периода (без времени)
	To     time.Time // Конец периода включительно (без времени)

	// EmergencyRequested true, когда клиент явно запросил аварийные слоты.
	// Аварийные слоты предлагаются только при исчерпанном регулярном пуле.
	EmergencyRequested bool
}

// Response модель ответа со слотами по дням периода
type Response struct {
	ShopID int64
	Days   []DaySlots
}

// DaySlots слоты одного дня
// Для blackout-дат, нерабочих и прошедших дней список пуст
type DaySlots struct {
	Date  time.Time
	Slots []Slot
}

// Slot модель доступного временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время конца слота
	DurationMinutes int              // Длительность слота в минутах
	Kind            string           // "regular" или "emergency"
}
