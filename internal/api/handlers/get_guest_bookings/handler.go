package get_guest_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/KakraGeek/staykasa-booking-service/internal/api/handlers"
	"github.com/KakraGeek/staykasa-booking-service/internal/api/middleware"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings/models"
	"github.com/KakraGeek/staykasa-booking-service/pkg/ptr"
)

const (
	msgInvalidGuestID = "invalid guest ID"
	msgMissingUserID  = "missing user identity"
	msgForbidden      = "access denied"
	msgInvalidInput   = "invalid request parameters"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/guests/{guestId}/bookings?status=confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем guestId из URL
	vars := mux.Vars(r)
	guestID, err := strconv.ParseInt(vars["guestId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /guests/{id}/bookings - Invalid guest ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGuestID)
		return
	}

	// Получаем действующее лицо из контекста (через middleware Auth)
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /guests/{id}/bookings - Missing actor identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Опциональный фильтр по статусу
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = ptr.Ptr(s)
	}

	result, err := h.service.GetGuestBookings(r.Context(), &models.GetGuestBookingsRequest{
		GuestID:   guestID,
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Status:    status,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrForbidden):
			h.logger.Warn("GET /guests/{id}/bookings - Access denied: guest_id=%d, actor_id=%d, role=%s",
				guestID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /guests/{id}/bookings - Invalid input: guest_id=%d, error=%v", guestID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /guests/{id}/bookings - Failed to get bookings: guest_id=%d, error=%v", guestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /guests/{id}/bookings - Bookings retrieved: guest_id=%d, count=%d",
		guestID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
