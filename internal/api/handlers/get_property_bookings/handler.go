package get_property_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/KakraGeek/staykasa-booking-service/internal/api/handlers"
	"github.com/KakraGeek/staykasa-booking-service/internal/api/middleware"
	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings/models"
	"github.com/KakraGeek/staykasa-booking-service/pkg/ptr"
)

const (
	msgInvalidPropertyID = "invalid property ID"
	msgInvalidDate       = "invalid date format, expected YYYY-MM-DD"
	msgMissingUserID     = "missing user identity"
	msgPropertyNotFound  = "property not found"
	msgForbidden         = "access denied"
	msgInvalidInput      = "invalid request parameters"
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

// Handle GET /api/v1/properties/{propertyId}/bookings?start_date=...&end_date=...&status=...&include_inactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем propertyId из URL
	vars := mux.Vars(r)
	propertyID, err := strconv.ParseInt(vars["propertyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /properties/{id}/bookings - Invalid property ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPropertyID)
		return
	}

	// Получаем действующее лицо из контекста (через middleware Auth)
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /properties/{id}/bookings - Missing actor identity")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Парсим опциональные фильтры
	req := &models.GetPropertyBookingsRequest{
		PropertyID: propertyID,
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
	}

	query := r.URL.Query()

	if s := query.Get("start_date"); s != "" {
		startDate, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			h.logger.Warn("GET /properties/{id}/bookings - Invalid start_date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}

	if s := query.Get("end_date"); s != "" {
		endDate, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			h.logger.Warn("GET /properties/{id}/bookings - Invalid end_date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}

	if s := query.Get("status"); s != "" {
		req.Status = ptr.Ptr(s)
	}

	if query.Get("include_inactive") == "true" {
		req.IncludeInactive = true
	}

	result, err := h.service.GetPropertyBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrPropertyNotFound):
			h.logger.Warn("GET /properties/{id}/bookings - Property not found: property_id=%d", propertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, bookings.ErrForbidden):
			h.logger.Warn("GET /properties/{id}/bookings - Access denied: property_id=%d, actor_id=%d, role=%s",
				propertyID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /properties/{id}/bookings - Invalid input: property_id=%d, error=%v", propertyID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /properties/{id}/bookings - Failed to get bookings: property_id=%d, error=%v",
				propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /properties/{id}/bookings - Bookings retrieved: property_id=%d, count=%d",
		propertyID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
