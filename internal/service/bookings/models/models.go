package models

import (
	"errors"
	"time"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	"github.com/KakraGeek/staykasa-booking-service/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidRole возвращается при неизвестной роли действующего лица
	ErrInvalidRole = errors.New("invalid actor role")
)

// Request модели

// TransitionRequest запрос на перевод бронирования в новый статус
type TransitionRequest struct {
	ActorID      int64   `json:"actorId"`
	ActorRole    string  `json:"actorRole"`
	TargetStatus string  `json:"targetStatus"`
	Reason       *string `json:"reason,omitempty"` // причина отмены (для cancelled)
}

// Actor конвертирует запрос в domain.Actor с валидацией роли
func (r *TransitionRequest) Actor() (domain.Actor, error) {
	if r.ActorID <= 0 {
		return domain.Actor{}, ErrInvalidRole
	}
	if !domain.ValidRole(r.ActorRole) {
		return domain.Actor{}, ErrInvalidRole
	}
	return domain.Actor{ID: r.ActorID, Role: domain.ActorRole(r.ActorRole)}, nil
}

// GetGuestBookingsRequest запрос истории бронирований гостя
type GetGuestBookingsRequest struct {
	GuestID   int64   `json:"guestId"`
	ActorID   int64   `json:"actorId"`
	ActorRole string  `json:"actorRole"`
	Status    *string `json:"status,omitempty"`
}

// GetPropertyBookingsRequest запрос бронирований объекта (панель хоста)
type GetPropertyBookingsRequest struct {
	PropertyID      int64      `json:"propertyId"`
	ActorID         int64      `json:"actorId"`
	ActorRole       string     `json:"actorRole"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPropertyBookingsRequest) ToDomainFilter() (domain.PropertyBookingsFilter, error) {
	filter := domain.PropertyBookingsFilter{
		PropertyID:      r.PropertyID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	Reference  string  `json:"reference"`
	PropertyID int64   `json:"propertyId"`
	GuestID    int64   `json:"guestId"`
	CheckIn    string  `json:"checkIn"`  // "2025-10-15"
	CheckOut   string  `json:"checkOut"` // "2025-10-18"
	Nights     int     `json:"nights"`
	Guests     int     `json:"guests"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`

	SpecialRequests *string `json:"specialRequests,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Reference:          b.Reference,
		PropertyID:         b.PropertyID,
		GuestID:            b.GuestID,
		CheckIn:            b.CheckIn.Format(domain.DateFormat),
		CheckOut:           b.CheckOut.Format(domain.DateFormat),
		Nights:             b.Nights(),
		Guests:             b.Guests,
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	// Валидируем статус
	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCancelled,
		domain.StatusCompleted,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
