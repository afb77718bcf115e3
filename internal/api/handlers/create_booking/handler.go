package create_booking

import (
	"errors"
	"net/http"

	"github.com/KakraGeek/staykasa-booking-service/internal/api/handlers"
	"github.com/KakraGeek/staykasa-booking-service/internal/api/middleware"
	createBooking "github.com/KakraGeek/staykasa-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDate          = "invalid date format, expected YYYY-MM-DD"
	msgMissingUserID        = "missing user identity"
	msgPropertyNotFound     = "property not found"
	msgPropertyUnavailable  = "property does not accept bookings"
	msgCapacityExceeded     = "guest count exceeds property capacity"
	msgInvalidRange         = "check-out date must be after check-in date"
	msgDateConflict         = "requested dates conflict with an existing booking"
	msgInvalidInput         = "invalid booking data"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем гостя из контекста (через middleware Auth)
	guestID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(guestID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrDateConflict):
			h.logger.Warn("POST /bookings - Date conflict: guest_id=%d, property_id=%d, check_in=%s, check_out=%s",
				guestID, req.PropertyID, req.CheckIn, req.CheckOut)
			handlers.RespondError(w, http.StatusConflict, msgDateConflict)

		case errors.Is(err, createBooking.ErrPropertyNotFound):
			h.logger.Warn("POST /bookings - Property not found: property_id=%d", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, createBooking.ErrPropertyUnavailable):
			h.logger.Warn("POST /bookings - Property unavailable: guest_id=%d, property_id=%d", guestID, req.PropertyID)
			handlers.RespondError(w, http.StatusConflict, msgPropertyUnavailable)

		case errors.Is(err, createBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: guest_id=%d, property_id=%d, guests=%d",
				guestID, req.PropertyID, req.Guests)
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrInvalidRange):
			h.logger.Warn("POST /bookings - Invalid date range: guest_id=%d, property_id=%d, check_in=%s, check_out=%s",
				guestID, req.PropertyID, req.CheckIn, req.CheckOut)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: guest_id=%d, property_id=%d, error=%v",
				guestID, req.PropertyID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: guest_id=%d, property_id=%d, error=%v",
				guestID, req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, reference=%s, guest_id=%d, property_id=%d",
		result.ID, result.Reference, guestID, req.PropertyID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
