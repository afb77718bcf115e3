package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	propertyRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/property"
)

// UseCase use case для получения календаря доступности объекта
type UseCase struct {
	bookingRepo  BookingRepository
	propertyRepo PropertyRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	propertyRepo PropertyRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Execute выполняет use case получения календаря доступности
// Чтение идёт без транзакции: календарь - снимок на момент запроса,
// актуальность при создании бронирования гарантирует create_booking
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: property=%d, window=[%s, %s)",
		req.PropertyID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем объект размещения (нужна вместимость)
	property, err := uc.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			uc.logger.Warn("CheckAvailability: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}

	// 3. Получаем активные бронирования, пересекающие окно
	bookings, err := uc.bookingRepo.GetBlockingInRange(ctx, req.PropertyID, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 4. Строим посуточную картину занятости
	days := buildDays(req.StartDate, req.EndDate, property.MaxGuests, bookings)

	uc.logger.Info("CheckAvailability: built %d day records for property=%d", len(days), req.PropertyID)

	return &Response{
		PropertyID: property.ID,
		MaxGuests:  property.MaxGuests,
		StartDate:  domain.DateOnly(req.StartDate),
		EndDate:    domain.DateOnly(req.EndDate),
		Days:       days,
	}, nil
}
