package domain

import (
	"time"

	"github.com/signcraft/scheduling-service/pkg/types"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// SlotKind identifies which daily capacity pool a slot or booking belongs to
type SlotKind string

const (
	KindRegular   SlotKind = "regular"
	KindEmergency SlotKind = "emergency"
)

// Booking is a reservation of one slot by one customer for one quote.
// UrgentFeePct and PolicyVersion are copied from the shop policy at creation
// time and frozen; later policy edits never retroactively alter a booking.
type Booking struct {
	ID              int64
	ShopID          int64
	QuoteID         int64
	CustomerID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
	IsEmergency     bool
	UrgentFeePct    float64
	PolicyVersion   int64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kind returns the capacity pool this booking counts against
func (b *Booking) Kind() SlotKind {
	if b.IsEmergency {
		return KindEmergency
	}
	return KindRegular
}

// IsActive returns true if the booking consumes capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking can never change state again
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanTransitionTo reports whether the state machine allows moving to target.
// PENDING -> {CONFIRMED, CANCELLED}; CONFIRMED -> {CANCELLED, COMPLETED};
// CANCELLED and COMPLETED are terminal.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled || target == StatusCompleted
	default:
		return false
	}
}

// EndTime returns the end of the booked slot
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// Overlaps reports whether this booking overlaps the [slotStart, slotEnd)
// interval. Touching boundaries do not count as an overlap.
func (b *Booking) Overlaps(slotStart, slotEnd types.TimeString) bool {
	end, err := b.EndTime()
	if err != nil {
		return false
	}
	return b.StartTime.IsBefore(slotEnd) && end.IsAfter(slotStart)
}

// BookingsFilter filters bookings for capacity counting and listings
type BookingsFilter struct {
	ShopID          int64
	StartDate       *time.Time     // inclusive, nil = unbounded
	EndDate         *time.Time     // inclusive, nil = unbounded
	Status          *BookingStatus // nil = any
	IsEmergency     *bool          // nil = both pools
	IncludeInactive bool           // include cancelled/completed bookings
}
