package create_booking

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект размещения не найден
	ErrPropertyNotFound = errors.New("create_booking: property not found")

	// ErrPropertyUnavailable возвращается, когда объект снят с публикации
	// и не принимает новые бронирования
	ErrPropertyUnavailable = errors.New("create_booking: property is not available")

	// ErrCapacityExceeded возвращается, когда количество гостей превышает
	// вместимость объекта
	ErrCapacityExceeded = errors.New("create_booking: guest count exceeds property capacity")

	// ErrInvalidRange возвращается, когда дата выезда не позже даты заезда
	ErrInvalidRange = errors.New("create_booking: check-out must be after check-in")

	// ErrDateConflict возвращается, когда запрошенные даты пересекаются
	// с существующим активным бронированием
	ErrDateConflict = errors.New("create_booking: dates conflict with an existing booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
