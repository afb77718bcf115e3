package create_booking

import (
	"fmt"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Проверка диапазона дат и вместимости делается отдельно в Execute,
// чтобы порядок отказов соответствовал контракту создания бронирования
func validateRequest(req *Request) error {
	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.GuestID <= 0 {
		return fmt.Errorf("%w: guestID must be positive", ErrInvalidInput)
	}

	if req.Guests < domain.MinGuests {
		return fmt.Errorf("%w: guests must be positive", ErrInvalidInput)
	}

	// Проверяем, что даты не являются нулевыми
	if req.CheckIn.IsZero() {
		return fmt.Errorf("%w: checkIn is required", ErrInvalidInput)
	}

	if req.CheckOut.IsZero() {
		return fmt.Errorf("%w: checkOut is required", ErrInvalidInput)
	}

	if req.SpecialRequests != nil && len(*req.SpecialRequests) > domain.MaxSpecialRequestsLength {
		return fmt.Errorf("%w: special requests must not exceed %d characters",
			ErrInvalidInput, domain.MaxSpecialRequestsLength)
	}

	return nil
}

// validateDateRange проверяет полуоткрытый диапазон [checkIn, checkOut)
func validateDateRange(req *Request) error {
	if !domain.DateOnly(req.CheckOut).After(domain.DateOnly(req.CheckIn)) {
		return ErrInvalidRange
	}

	if domain.NightsBetween(req.CheckIn, req.CheckOut) > domain.MaxNights {
		return fmt.Errorf("%w: stay must not exceed %d nights", ErrInvalidInput, domain.MaxNights)
	}

	return nil
}
