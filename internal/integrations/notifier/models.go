package notifier

// NotificationRequest модель запроса к сервису уведомлений
type NotificationRequest struct {
	RecipientIDs []int64     `json:"recipient_ids"`
	EventType    string      `json:"event_type"`
	Payload      interface{} `json:"payload"`
}

// BookingEventPayload полезная нагрузка событий жизненного цикла бронирования
type BookingEventPayload struct {
	BookingID  int64   `json:"booking_id"`
	Reference  string  `json:"reference"`
	PropertyID int64   `json:"property_id"`
	GuestID    int64   `json:"guest_id"`
	CheckIn    string  `json:"check_in"`  // YYYY-MM-DD
	CheckOut   string  `json:"check_out"` // YYYY-MM-DD
	Guests     int     `json:"guests"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}
