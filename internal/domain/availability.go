package domain

import "time"

// DayAvailability represents the committed capacity of a property on a
// single calendar day, for calendar-style UIs
type DayAvailability struct {
	Date            time.Time
	CommittedGuests int // sum of guests across blocking bookings covering the day
	MaxGuests       int
}

// AvailableCapacity returns how many more guests the day can take
func (d *DayAvailability) AvailableCapacity() int {
	capacity := d.MaxGuests - d.CommittedGuests
	if capacity < 0 {
		return 0
	}
	return capacity
}

// IsFullyBooked returns true if the day has no remaining guest capacity
func (d *DayAvailability) IsFullyBooked() bool {
	return d.CommittedGuests >= d.MaxGuests
}

// IsFree returns true if nothing is committed on the day
func (d *DayAvailability) IsFree() bool {
	return d.CommittedGuests == 0
}

// IsPartiallyBooked returns true if the day has some but not all capacity taken
func (d *DayAvailability) IsPartiallyBooked() bool {
	return d.CommittedGuests > 0 && d.CommittedGuests < d.MaxGuests
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (d *DayAvailability) OccupancyRate() float64 {
	if d.MaxGuests == 0 {
		return 0
	}
	rate := float64(d.CommittedGuests) / float64(d.MaxGuests) * 100
	if rate > 100 {
		return 100
	}
	return rate
}
