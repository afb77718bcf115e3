package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	bookingRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/booking"
	propertyRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/property"
	"github.com/KakraGeek/staykasa-booking-service/internal/integrations/notifier"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings/models"
)

// notifyTimeout ограничение на фоновую отправку уведомлений
const notifyTimeout = 10 * time.Second

// Service сервис жизненного цикла бронирований
// Владеет таблицей переходов статусов и проверками прав действующих лиц;
// права передаются явными параметрами (actorId/actorRole), а не берутся
// из амбиентного состояния запроса
type Service struct {
	bookingRepo    BookingRepository
	propertyRepo   PropertyRepository
	notifierClient NotifierClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	propertyRepo PropertyRepository,
	notifierClient NotifierClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		propertyRepo:   propertyRepo,
		notifierClient: notifierClient,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Гость видит только своё бронирование, хост - бронирования своих объектов,
// админ - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d role=%s", id, actor.ID, actor.Role)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	// Проверяем права доступа
	if err := s.checkReadAccess(ctx, booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d role=%s to booking id=%d", actor.ID, actor.Role, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetGuestBookings получает историю бронирований гостя
// Доступно самому гостю и администраторам
func (s *Service) GetGuestBookings(ctx context.Context, req *models.GetGuestBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetGuestBookings: fetching bookings for guest=%d, actor=%d role=%s",
		req.GuestID, req.ActorID, req.ActorRole)

	actor, err := toActor(req.ActorID, req.ActorRole)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !actor.IsAdmin() && actor.ID != req.GuestID {
		s.logger.Warn("GetGuestBookings: actor=%d role=%s may not read bookings of guest=%d",
			actor.ID, actor.Role, req.GuestID)
		return nil, ErrForbidden
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetGuestBookings: invalid status=%s for guest=%d", *req.Status, req.GuestID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByGuestID(ctx, req.GuestID, domainStatus)
	if err != nil {
		s.logger.Error("GetGuestBookings: repository error for guest=%d: %v", req.GuestID, err)
		return nil, fmt.Errorf("%w: GetGuestBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetGuestBookings: successfully fetched %d bookings for guest=%d", len(bookings), req.GuestID)
	return models.FromDomainBookingList(bookings), nil
}

// GetPropertyBookings получает бронирования объекта с гибкой фильтрацией
// Доступно владельцу объекта и администраторам
func (s *Service) GetPropertyBookings(ctx context.Context, req *models.GetPropertyBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetPropertyBookings: fetching bookings for property=%d, actor=%d role=%s",
		req.PropertyID, req.ActorID, req.ActorRole)

	actor, err := toActor(req.ActorID, req.ActorRole)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Проверяем права доступа владельца/админа
	if err := s.checkHostAccess(ctx, req.PropertyID, actor); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPropertyBookings: invalid filter for property=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByPropertyWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPropertyBookings: repository error for property=%d: %v", req.PropertyID, err)
		return nil, fmt.Errorf("%w: GetPropertyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPropertyBookings: successfully fetched %d bookings for property=%d", len(bookings), req.PropertyID)
	return models.FromDomainBookingList(bookings), nil
}

// Transition переводит бронирование в новый статус по таблице переходов:
//
//	pending   → confirmed  хост объекта / админ
//	pending   → cancelled  гость / хост / админ
//	confirmed → cancelled  гость / хост / админ
//	confirmed → completed  система / админ, дата выезда прошла
//
// Любой переход из cancelled или completed запрещён (терминальные статусы)
func (s *Service) Transition(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	s.logger.Info("Transition: booking id=%d to status=%s by actor=%d role=%s",
		bookingID, req.TargetStatus, req.ActorID, req.ActorRole)

	actor, err := req.Actor()
	if err != nil {
		s.logger.Warn("Transition: invalid actor (id=%d role=%s) for booking id=%d", req.ActorID, req.ActorRole, bookingID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	targetStatus, err := models.ToDomainBookingStatus(req.TargetStatus)
	if err != nil {
		s.logger.Warn("Transition: invalid target status=%s for booking id=%d", req.TargetStatus, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID, "Transition")
	if err != nil {
		return nil, err
	}

	// Терминальные статусы переходов не допускают
	if booking.IsTerminal() {
		s.logger.Warn("Transition: booking id=%d already terminal (status=%s)", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	switch targetStatus {
	case domain.StatusConfirmed:
		err = s.confirm(ctx, booking, actor)
	case domain.StatusCancelled:
		err = s.cancel(ctx, booking, actor, req.Reason)
	case domain.StatusCompleted:
		err = s.complete(ctx, booking, actor)
	default:
		// pending не бывает целевым статусом - в него только создают
		s.logger.Warn("Transition: target status=%s is not reachable for booking id=%d", targetStatus, bookingID)
		return nil, ErrInvalidTransition
	}

	if err != nil {
		return nil, err
	}

	// Перечитываем бронирование, чтобы отдать актуальные timestamps
	updated, err := s.getBooking(ctx, bookingID, "Transition")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transition: booking id=%d moved %s → %s by actor=%d role=%s",
		bookingID, booking.Status, updated.Status, actor.ID, actor.Role)

	s.dispatchTransitionNotification(ctx, updated)

	return models.FromDomainBooking(updated), nil
}

// CompleteElapsed переводит в completed все confirmed бронирования с прошедшей
// датой выезда. Вызывается фоновой задачей от имени системы
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	completed, err := s.bookingRepo.CompleteElapsed(ctx, domain.DateOnly(now))
	if err != nil {
		s.logger.Error("CompleteElapsed: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsed - repository error: %v", ErrInternal, err)
	}

	if len(completed) > 0 {
		s.logger.Info("CompleteElapsed: completed %d elapsed bookings", len(completed))
		for _, b := range completed {
			s.dispatchTransitionNotification(ctx, b)
		}
	}

	return len(completed), nil
}

// Переходы

// confirm подтверждает pending бронирование (хост объекта или админ)
func (s *Service) confirm(ctx context.Context, booking *domain.Booking, actor domain.Actor) error {
	if !booking.CanBeConfirmed() {
		s.logger.Warn("Transition: booking id=%d cannot be confirmed from status=%s", booking.ID, booking.Status)
		return ErrInvalidTransition
	}

	if !actor.IsAdmin() {
		if actor.Role != domain.RoleHost {
			s.logger.Warn("Transition: role=%s may not confirm booking id=%d", actor.Role, booking.ID)
			return ErrForbidden
		}
		if err := s.checkHostOwnership(ctx, booking.PropertyID, actor.ID); err != nil {
			return err
		}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed); err != nil {
		return s.mapRepoError(err, booking.ID, "confirm")
	}

	return nil
}

// cancel отменяет pending или confirmed бронирование
// (гость-автор, хост-владелец объекта или админ)
func (s *Service) cancel(ctx context.Context, booking *domain.Booking, actor domain.Actor, reason *string) error {
	if !booking.CanBeCancelled() {
		s.logger.Warn("Transition: booking id=%d cannot be cancelled from status=%s", booking.ID, booking.Status)
		return ErrInvalidTransition
	}

	cancelReason := ""
	if reason != nil {
		if len(*reason) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
				ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		cancelReason = *reason
	}

	if !actor.IsAdmin() {
		switch actor.Role {
		case domain.RoleGuest:
			if booking.GuestID != actor.ID {
				s.logger.Warn("Transition: guest=%d is not the author of booking id=%d", actor.ID, booking.ID)
				return ErrForbidden
			}
		case domain.RoleHost:
			if err := s.checkHostOwnership(ctx, booking.PropertyID, actor.ID); err != nil {
				return err
			}
		default:
			s.logger.Warn("Transition: role=%s may not cancel booking id=%d", actor.Role, booking.ID)
			return ErrForbidden
		}
	}

	if err := s.bookingRepo.Cancel(ctx, booking.ID, cancelReason); err != nil {
		return s.mapRepoError(err, booking.ID, "cancel")
	}

	return nil
}

// complete завершает confirmed бронирование с прошедшей датой выезда
// (система или админ)
func (s *Service) complete(ctx context.Context, booking *domain.Booking, actor domain.Actor) error {
	if !booking.CanBeCompleted() {
		s.logger.Warn("Transition: booking id=%d cannot be completed from status=%s", booking.ID, booking.Status)
		return ErrInvalidTransition
	}

	if !actor.IsAdmin() && !actor.IsSystem() {
		s.logger.Warn("Transition: role=%s may not complete booking id=%d", actor.Role, booking.ID)
		return ErrForbidden
	}

	// Завершить можно только после даты выезда
	now := domain.DateOnly(s.timeProvider.Now())
	if now.Before(domain.DateOnly(booking.CheckOut)) {
		s.logger.Warn("Transition: booking id=%d checkout %s has not passed yet",
			booking.ID, booking.CheckOut.Format(domain.DateFormat))
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusCompleted); err != nil {
		return s.mapRepoError(err, booking.ID, "complete")
	}

	return nil
}

// Вспомогательные методы

// getBooking получает бронирование, маппя ошибки репозитория на ошибки сервиса
func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkReadAccess проверяет, что действующее лицо может видеть бронирование
func (s *Service) checkReadAccess(ctx context.Context, booking *domain.Booking, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	switch actor.Role {
	case domain.RoleGuest:
		if booking.GuestID == actor.ID {
			return nil
		}
	case domain.RoleHost:
		if err := s.checkHostOwnership(ctx, booking.PropertyID, actor.ID); err == nil {
			return nil
		}
	}

	return ErrForbidden
}

// checkHostAccess проверяет доступ к бронированиям объекта (владелец или админ)
func (s *Service) checkHostAccess(ctx context.Context, propertyID int64, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	if actor.Role != domain.RoleHost {
		s.logger.Warn("checkHostAccess: role=%s may not read bookings of property=%d", actor.Role, propertyID)
		return ErrForbidden
	}

	return s.checkHostOwnership(ctx, propertyID, actor.ID)
}

// checkHostOwnership проверяет, что хост владеет объектом
func (s *Service) checkHostOwnership(ctx context.Context, propertyID, hostID int64) error {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			s.logger.Warn("checkHostOwnership: property id=%d not found", propertyID)
			return ErrPropertyNotFound
		}
		s.logger.Error("checkHostOwnership: failed to get property id=%d: %v", propertyID, err)
		return fmt.Errorf("%w: checkHostOwnership - failed to get property: %v", ErrInternal, err)
	}

	if property.OwnerID != hostID {
		s.logger.Warn("checkHostOwnership: host=%d does not own property=%d", hostID, propertyID)
		return ErrForbidden
	}

	return nil
}

// mapRepoError маппит ошибки репозитория при обновлении статуса
func (s *Service) mapRepoError(err error, bookingID int64, op string) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("Transition: booking id=%d disappeared during %s", bookingID, op)
		return ErrBookingNotFound
	}
	s.logger.Error("Transition: repository error during %s for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// dispatchTransitionNotification уведомляет гостя и владельца объекта о смене
// статуса бронирования. Best-effort: ошибки логируются и проглатываются
func (s *Service) dispatchTransitionNotification(ctx context.Context, booking *domain.Booking) {
	eventType := eventForStatus(booking.Status)
	if eventType == "" {
		return
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		s.logger.Error("Transition: failed to resolve owner of property=%d for notification: %v",
			booking.PropertyID, err)
		return
	}

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

	recipients := []int64{booking.GuestID, property.OwnerID}

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifierClient.Notify(notifyCtx, recipients, eventType, payload); err != nil {
			s.logger.Error("Transition: failed to notify recipients for booking id=%d: %v", booking.ID, err)
		}
	}()
}

// eventForStatus возвращает тип события уведомления для статуса
func eventForStatus(status domain.BookingStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return domain.EventBookingConfirmed
	case domain.StatusCancelled:
		return domain.EventBookingCancelled
	case domain.StatusCompleted:
		return domain.EventBookingCompleted
	default:
		return ""
	}
}

// toActor конвертирует идентификатор и роль в domain.Actor
func toActor(actorID int64, actorRole string) (domain.Actor, error) {
	if actorID <= 0 {
		return domain.Actor{}, models.ErrInvalidRole
	}
	if !domain.ValidRole(actorRole) {
		return domain.Actor{}, models.ErrInvalidRole
	}
	return domain.Actor{ID: actorID, Role: domain.ActorRole(actorRole)}, nil
}
