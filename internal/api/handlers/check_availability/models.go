package check_availability

import (
	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	checkAvailability "github.com/KakraGeek/staykasa-booking-service/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	PropertyID int64             `json:"propertyId"`
	MaxGuests  int               `json:"maxGuests"`
	StartDate  string            `json:"startDate"`
	EndDate    string            `json:"endDate"`
	Days       []DayAvailability `json:"days"`
}

// DayAvailability доступность объекта на один календарный день
type DayAvailability struct {
	Date              string `json:"date"`
	CommittedGuests   int    `json:"committedGuests"`
	AvailableCapacity int    `json:"availableCapacity"`
	FullyBooked       bool   `json:"fullyBooked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	days := make([]DayAvailability, 0, len(resp.Days))
	for _, day := range resp.Days {
		days = append(days, DayAvailability{
			Date:              day.Date.Format(domain.DateFormat),
			CommittedGuests:   day.CommittedGuests,
			AvailableCapacity: day.AvailableCapacity,
			FullyBooked:       day.FullyBooked,
		})
	}

	return &AvailabilityResponse{
		PropertyID: resp.PropertyID,
		MaxGuests:  resp.MaxGuests,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		Days:       days,
	}
}
