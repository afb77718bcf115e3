package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a stay reservation for a property
type Booking struct {
	ID         int64
	Reference  string // public UUID handed out to guests and hosts
	PropertyID int64
	GuestID    int64
	CheckIn    time.Time // calendar date; the night of check-in is occupied
	CheckOut   time.Time // calendar date, exclusive: checkout day is free for the next guest
	Guests     int
	TotalPrice float64
	Status     BookingStatus

	SpecialRequests *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Nights returns the number of nights covered by the booking
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// IsBlocking returns true if the booking counts against the property's
// capacity and participates in overlap conflict checks
func (b *Booking) IsBlocking() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further status transitions are allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeConfirmed returns true if the booking can be confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCompleted returns true if the booking can be completed once the
// checkout date has passed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// OverlapsRange returns true if the booking's stay overlaps the half-open
// range [checkIn, checkOut)
func (b *Booking) OverlapsRange(checkIn, checkOut time.Time) bool {
	return RangesOverlap(b.CheckIn, b.CheckOut, checkIn, checkOut)
}

// CoversDay returns true if the given calendar day falls inside the
// booking's stay (checkout day excluded)
func (b *Booking) CoversDay(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(DateOnly(b.CheckIn)) && d.Before(DateOnly(b.CheckOut))
}

// PropertyBookingsFilter фильтр для получения бронирований объекта размещения
type PropertyBookingsFilter struct {
	PropertyID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально, если nil - без ограничения)
	EndDate         *time.Time     // Конец периода (опционально, если nil - без ограничения)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и завершённые бронирования
}
