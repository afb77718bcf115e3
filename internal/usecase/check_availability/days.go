package check_availability

import (
	"time"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
)

// buildDays строит посуточную картину занятости для окна [start, end)
//
// Для каждого дня committed = сумма guests по активным (pending/confirmed)
// бронированиям, чей диапазон покрывает этот день. Отменённые и завершённые
// бронирования в выборку не попадают вовсе (фильтр по статусу в репозитории),
// но на случай ошибок в данных статус перепроверяется и здесь
func buildDays(start, end time.Time, maxGuests int, bookings []*domain.Booking) []Day {
	days := domain.DaysInRange(start, end)
	result := make([]Day, len(days))

	for i, day := range days {
		committed := 0

		for _, booking := range bookings {
			if !booking.IsBlocking() {
				continue
			}
			if booking.CoversDay(day) {
				committed += booking.Guests
			}
		}

		avail := domain.DayAvailability{
			Date:            day,
			CommittedGuests: committed,
			MaxGuests:       maxGuests,
		}

		result[i] = Day{
			Date:              avail.Date,
			CommittedGuests:   avail.CommittedGuests,
			AvailableCapacity: avail.AvailableCapacity(),
			FullyBooked:       avail.IsFullyBooked(),
		}
	}

	return result
}
