package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signcraft/scheduling-service/pkg/types"
)

func TestBookingCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).IsActive())
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusCompleted}).IsActive())
}

func TestBookingOverlaps(t *testing.T) {
	b := &Booking{
		StartTime:       types.TimeString("11:00"),
		DurationMinutes: 60,
	}

	tests := []struct {
		name     string
		start    string
		end      string
		overlaps bool
	}{
		{"identical interval", "11:00", "12:00", true},
		{"partial overlap", "11:30", "12:30", true},
		{"contained", "11:15", "11:45", true},
		{"touching before", "10:00", "11:00", false},
		{"touching after", "12:00", "13:00", false},
		{"disjoint", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Overlaps(types.TimeString(tt.start), types.TimeString(tt.end))
			assert.Equal(t, tt.overlaps, got)
		})
	}
}

func TestBookingKind(t *testing.T) {
	assert.Equal(t, KindRegular, (&Booking{}).Kind())
	assert.Equal(t, KindEmergency, (&Booking{IsEmergency: true}).Kind())
}
