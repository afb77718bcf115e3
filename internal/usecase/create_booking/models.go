package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	PropertyID      int64     // ID объекта размещения
	GuestID         int64     // ID гостя
	CheckIn         time.Time // Дата заезда (без времени)
	CheckOut        time.Time // Дата выезда (без времени, не входит в проживание)
	Guests          int       // Количество гостей
	SpecialRequests *string   // Пожелания гостя (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64     // ID созданного бронирования
	Reference  string    // Публичный номер бронирования
	PropertyID int64     // ID объекта
	GuestID    int64     // ID гостя
	CheckIn    time.Time // Дата заезда
	CheckOut   time.Time // Дата выезда
	Nights     int       // Количество ночей
	Guests     int       // Количество гостей
	TotalPrice float64   // Полная стоимость (ночи × цена за ночь)
	Status     string    // Статус бронирования

	SpecialRequests *string // Пожелания гостя

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
