package create_booking

import (
	"time"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	createBooking "github.com/KakraGeek/staykasa-booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PropertyID      int64   `json:"propertyId"`
	CheckIn         string  `json:"checkIn"`  // "2025-10-15"
	CheckOut        string  `json:"checkOut"` // "2025-10-18"
	Guests          int     `json:"guests"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	Reference  string  `json:"reference"`
	PropertyID int64   `json:"propertyId"`
	GuestID    int64   `json:"guestId"`
	CheckIn    string  `json:"checkIn"`
	CheckOut   string  `json:"checkOut"`
	Nights     int     `json:"nights"`
	Guests     int     `json:"guests"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`

	SpecialRequests *string `json:"specialRequests,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Гостем становится аутентифицированный пользователь
func (r *CreateBookingRequest) ToUseCaseRequest(guestID int64) (*createBooking.Request, error) {
	checkIn, err := time.Parse(domain.DateFormat, r.CheckIn)
	if err != nil {
		return nil, err
	}

	checkOut, err := time.Parse(domain.DateFormat, r.CheckOut)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		PropertyID:      r.PropertyID,
		GuestID:         guestID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          r.Guests,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		PropertyID:      resp.PropertyID,
		GuestID:         resp.GuestID,
		CheckIn:         resp.CheckIn.Format(domain.DateFormat),
		CheckOut:        resp.CheckOut.Format(domain.DateFormat),
		Nights:          resp.Nights,
		Guests:          resp.Guests,
		TotalPrice:      resp.TotalPrice,
		Status:          resp.Status,
		SpecialRequests: resp.SpecialRequests,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
