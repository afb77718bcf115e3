package domain

import "time"

// Property represents a listed property as seen by the booking engine.
// The engine only reads properties; listing management, photos and review
// aggregates are owned by the catalog side of the marketplace.
type Property struct {
	ID            int64
	OwnerID       int64
	Title         string
	PricePerNight float64 // nightly rate in GHS
	MaxGuests     int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AcceptsBookings returns true if the property can take new bookings
func (p *Property) AcceptsBookings() bool {
	return p.IsActive
}

// FitsGuests returns true if the requested party size is within capacity
func (p *Property) FitsGuests(guests int) bool {
	return guests > 0 && guests <= p.MaxGuests
}
