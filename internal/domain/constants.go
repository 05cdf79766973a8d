package domain

// Default policy values for a freshly provisioned shop
const (
	DefaultSlotDurationMinutes  = 60
	DefaultRegularSlotsPerDay   = 8
	DefaultEmergencySlotsPerDay = 0
	DefaultUrgentFeePct         = 20.0
	DefaultDepositPct           = 50.0
)

// Business validation constants
const (
	MinStartHour            = 0
	MaxEndHour              = 23 // slot times are HH:MM within one day, 24:00 is not representable
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 hours
	MaxRegularSlotsPerDay   = 100
	MaxEmergencySlotsPerDay = 100
	MaxFeePct               = 100.0
	MaxReasonLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses that consume capacity.
// Used when counting bookings against the daily pools.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses are the statuses that never consume capacity.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
