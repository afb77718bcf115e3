package check_availability

import "time"

// Request модель запроса календаря доступности
type Request struct {
	PropertyID int64     // ID объекта размещения
	StartDate  time.Time // Начало окна (входит в окно)
	EndDate    time.Time // Конец окна (не входит в окно)
}

// Response модель ответа с доступностью по дням
type Response struct {
	PropertyID int64     // ID объекта
	MaxGuests  int       // Вместимость объекта
	StartDate  time.Time // Начало окна
	EndDate    time.Time // Конец окна
	Days       []Day     // Записи по каждому календарному дню окна
}

// Day доступность объекта на один календарный день
type Day struct {
	Date              time.Time // Календарная дата
	CommittedGuests   int       // Сумма гостей по активным бронированиям, покрывающим день
	AvailableCapacity int       // Остаток вместимости (maxGuests - committed, не ниже 0)
	FullyBooked       bool      // true, если остатка вместимости нет
}
