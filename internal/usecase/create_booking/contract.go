package create_booking

import (
	"context"
	"time"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetBlockingInRange(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) ([]*domain.Booking, error)
}

// PropertyRepository интерфейс репозитория каталога объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// UserServiceClient интерфейс клиента UserService
type UserServiceClient interface {
	GetAdminIDsWithGracefulDegradation(ctx context.Context) []int64
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	Notify(ctx context.Context, recipientIDs []int64, eventType string, payload interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
