package check_availability

import (
	"fmt"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
)

// maxWindowDays ограничение размера окна календаря (календарь UI листает по месяцам)
const maxWindowDays = 366

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PropertyID <= 0 {
		return fmt.Errorf("%w: propertyID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate is required", ErrInvalidInput)
	}

	// Окно полуоткрытое: [startDate, endDate), конец должен быть строго позже начала
	if !domain.DateOnly(req.EndDate).After(domain.DateOnly(req.StartDate)) {
		return ErrInvalidRange
	}

	if domain.NightsBetween(req.StartDate, req.EndDate) > maxWindowDays {
		return fmt.Errorf("%w: window must not exceed %d days", ErrInvalidInput, maxWindowDays)
	}

	return nil
}
