package check_availability

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект размещения не найден
	ErrPropertyNotFound = errors.New("check_availability: property not found")

	// ErrInvalidRange возвращается, когда конец окна не позже его начала
	ErrInvalidRange = errors.New("check_availability: end date must be after start date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_availability: internal error")
)
