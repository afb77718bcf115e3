package domain

// Business validation constants
const (
	MinGuests                   = 1
	MaxNights                   = 365 // 1 year
	MaxSpecialRequestsLength    = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Notification event types dispatched to the notifier on lifecycle changes
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// BlockingStatuses count against a property's capacity and participate in
// overlap conflict checks
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses allow no further transitions
var TerminalStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
