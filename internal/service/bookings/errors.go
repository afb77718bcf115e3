package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrPropertyNotFound возвращается, когда объект размещения не найден
	ErrPropertyNotFound = errors.New("property not found")

	// ErrForbidden возвращается, когда у действующего лица нет прав на операцию
	// (гость - не автор бронирования, хост - не владелец объекта, не админ)
	ErrForbidden = errors.New("actor is not allowed to perform this transition")

	// ErrInvalidTransition возвращается, когда переход не разрешён таблицей
	// переходов или бронирование уже в терминальном статусе
	ErrInvalidTransition = errors.New("status transition is not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
