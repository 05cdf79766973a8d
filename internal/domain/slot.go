package domain

import (
	"time"

	"github.com/signcraft/scheduling-service/pkg/types"
)

// Slot is a fixed-duration interval on a given day reservable for one booking
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Kind      SlotKind
}

// DaySlots is the availability of a single date
type DaySlots struct {
	Date  time.Time
	Slots []Slot
}

// DayCapacity is a display-only summary of how full a single date is
type DayCapacity struct {
	Date           time.Time
	Blackout       bool
	RegularUsed    int
	RegularTotal   int
	EmergencyUsed  int
	EmergencyTotal int
}

// RegularExhausted returns true once the regular pool for the day is full
func (c *DayCapacity) RegularExhausted() bool {
	return c.RegularUsed >= c.RegularTotal
}

// EmergencyExhausted returns true once the emergency pool for the day is full
func (c *DayCapacity) EmergencyExhausted() bool {
	return c.EmergencyUsed >= c.EmergencyTotal
}
