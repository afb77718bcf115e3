package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	bookingRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/booking"
	propertyRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/property"
	"github.com/KakraGeek/staykasa-booking-service/internal/integrations/notifier"
)

// notifyTimeout ограничение на фоновую отправку уведомлений
const notifyTimeout = 10 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo         BookingRepository
	propertyRepo        PropertyRepository
	userClient          UserServiceClient
	notifierClient      NotifierClient
	txManager           TransactionManager
	requireHostApproval bool
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
// requireHostApproval управляет начальным статусом бронирования:
// true - pending (хост подтверждает вручную), false - сразу confirmed
func NewUseCase(
	bookingRepo BookingRepository,
	propertyRepo PropertyRepository,
	userClient UserServiceClient,
	notifierClient NotifierClient,
	txManager TransactionManager,
	requireHostApproval bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:         bookingRepo,
		propertyRepo:        propertyRepo,
		userClient:          userClient,
		notifierClient:      notifierClient,
		txManager:           txManager,
		requireHostApproval: requireHostApproval,
		logger:              logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка конфликта дат и вставка выполняются в одной сериализуемой
// транзакции с блокировкой пересекающихся бронирований (FOR UPDATE),
// поэтому из N одновременных запросов на одни даты выигрывает ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: property=%d, guest=%d, check_in=%s, check_out=%s, guests=%d",
		req.PropertyID, req.GuestID,
		req.CheckIn.Format(domain.DateFormat), req.CheckOut.Format(domain.DateFormat), req.Guests)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем объект размещения
	property, err := uc.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			uc.logger.Warn("CreateBooking: property id=%d not found", req.PropertyID)
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("CreateBooking: failed to get property id=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: failed to get property: %v", ErrInternal, err)
	}

	// 3. Объект должен принимать бронирования
	if !property.AcceptsBookings() {
		uc.logger.Warn("CreateBooking: property id=%d is inactive", req.PropertyID)
		return nil, ErrPropertyUnavailable
	}

	// 4. Количество гостей в пределах вместимости
	if !property.FitsGuests(req.Guests) {
		uc.logger.Warn("CreateBooking: %d guests exceed capacity %d of property id=%d",
			req.Guests, property.MaxGuests, req.PropertyID)
		return nil, ErrCapacityExceeded
	}

	// 5. Корректный диапазон дат
	if err := validateDateRange(req); err != nil {
		uc.logger.Warn("CreateBooking: date range validation failed: %v", err)
		return nil, err
	}

	// 6. Определяем начальный статус
	initialStatus := domain.StatusConfirmed
	if uc.requireHostApproval {
		initialStatus = domain.StatusPending
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем активные бронирования на эти даты с блокировкой (FOR UPDATE)
		overlapping, err := uc.bookingRepo.GetBlockingInRange(txCtx, req.PropertyID, req.CheckIn, req.CheckOut)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: property id=%d has %d overlapping bookings for [%s, %s)",
				req.PropertyID, len(overlapping),
				req.CheckIn.Format(domain.DateFormat), req.CheckOut.Format(domain.DateFormat))
			return ErrDateConflict
		}

		// 7.2. Создаем бронирование с вычисленной стоимостью
		booking := &domain.Booking{
			Reference:       uuid.NewString(),
			PropertyID:      req.PropertyID,
			GuestID:         req.GuestID,
			CheckIn:         domain.DateOnly(req.CheckIn),
			CheckOut:        domain.DateOnly(req.CheckOut),
			Guests:          req.Guests,
			TotalPrice:      domain.TotalPrice(property.PricePerNight, req.CheckIn, req.CheckOut),
			Status:          initialStatus,
			SpecialRequests: req.SpecialRequests,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Exclusion constraint сработал раньше нас - та же бизнес-ошибка
			if errors.Is(err, bookingRepo.ErrDateConflict) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected overlapping insert for property id=%d", req.PropertyID)
				return ErrDateConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d reference=%s status=%s total=%.2f",
		result.ID, result.Reference, result.Status, result.TotalPrice)

	// 8. Уведомляем хоста, администраторов и гостя (best-effort, вне транзакции)
	uc.dispatchCreatedNotifications(result, property.OwnerID)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		Reference:       result.Reference,
		PropertyID:      result.PropertyID,
		GuestID:         result.GuestID,
		CheckIn:         result.CheckIn,
		CheckOut:        result.CheckOut,
		Nights:          result.Nights(),
		Guests:          result.Guests,
		TotalPrice:      result.TotalPrice,
		Status:          string(result.Status),
		SpecialRequests: result.SpecialRequests,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// dispatchCreatedNotifications отправляет уведомления о новом бронировании
// хосту, администраторам и гостю в отдельной горутине
// Ошибки доставки логируются и проглатываются: уведомления никогда
// не влияют на результат бронирования
func (uc *UseCase) dispatchCreatedNotifications(booking *domain.Booking, ownerID int64) {
	payload := notifier.BookingEventPayload{
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		PropertyID: booking.PropertyID,
		GuestID:    booking.GuestID,
		CheckIn:    booking.CheckIn.Format(domain.DateFormat),
		CheckOut:   booking.CheckOut.Format(domain.DateFormat),
		Guests:     booking.Guests,
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		// Хост и администраторы площадки
		recipients := append([]int64{ownerID}, uc.userClient.GetAdminIDsWithGracefulDegradation(ctx)...)
		if err := uc.notifierClient.Notify(ctx, recipients, domain.EventBookingCreated, payload); err != nil {
			uc.logger.Error("CreateBooking: failed to notify host/admins for booking id=%d: %v", booking.ID, err)
		}

		// Гость получает подтверждение с деталями бронирования
		if err := uc.notifierClient.Notify(ctx, []int64{booking.GuestID}, domain.EventBookingCreated, payload); err != nil {
			uc.logger.Error("CreateBooking: failed to notify guest id=%d for booking id=%d: %v",
				booking.GuestID, booking.ID, err)
		}
	}()
}
