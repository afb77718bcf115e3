package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayAvailability_Capacity(t *testing.T) {
	free := &DayAvailability{CommittedGuests: 0, MaxGuests: 4}
	partial := &DayAvailability{CommittedGuests: 2, MaxGuests: 4}
	full := &DayAvailability{CommittedGuests: 4, MaxGuests: 4}
	over := &DayAvailability{CommittedGuests: 6, MaxGuests: 4}

	assert.Equal(t, 4, free.AvailableCapacity())
	assert.Equal(t, 2, partial.AvailableCapacity())
	assert.Equal(t, 0, full.AvailableCapacity())
	assert.Equal(t, 0, over.AvailableCapacity())

	assert.True(t, free.IsFree())
	assert.False(t, partial.IsFree())

	assert.True(t, partial.IsPartiallyBooked())
	assert.False(t, free.IsPartiallyBooked())
	assert.False(t, full.IsPartiallyBooked())

	assert.False(t, partial.IsFullyBooked())
	assert.True(t, full.IsFullyBooked())
	assert.True(t, over.IsFullyBooked())
}

func TestDayAvailability_OccupancyRate(t *testing.T) {
	assert.InDelta(t, 50.0, (&DayAvailability{CommittedGuests: 2, MaxGuests: 4}).OccupancyRate(), 0.001)
	assert.InDelta(t, 100.0, (&DayAvailability{CommittedGuests: 6, MaxGuests: 4}).OccupancyRate(), 0.001)
	assert.Zero(t, (&DayAvailability{CommittedGuests: 2, MaxGuests: 0}).OccupancyRate())
}
