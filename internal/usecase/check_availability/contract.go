package check_availability

import (
	"context"
	"time"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetBlockingInRange получает активные бронирования объекта,
	// пересекающиеся с полуоткрытым диапазоном [checkIn, checkOut)
	GetBlockingInRange(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) ([]*domain.Booking, error)
}

// PropertyRepository интерфейс репозитория каталога объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
