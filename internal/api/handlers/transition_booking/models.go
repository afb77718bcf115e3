package transition_booking

import (
	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings/models"
)

// TransitionBookingRequest HTTP request model
// Действующее лицо берётся из контекста запроса, а не из тела
type TransitionBookingRequest struct {
	Status string  `json:"status"`           // confirmed, cancelled или completed
	Reason *string `json:"reason,omitempty"` // причина отмены
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *TransitionBookingRequest) ToServiceRequest(actor domain.Actor) *models.TransitionRequest {
	return &models.TransitionRequest{
		ActorID:      actor.ID,
		ActorRole:    string(actor.Role),
		TargetStatus: r.Status,
		Reason:       r.Reason,
	}
}
