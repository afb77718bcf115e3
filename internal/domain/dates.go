package domain

import "time"

// DateOnly обнуляет компонент времени, оставляя только календарную дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween возвращает количество ночей между датами заезда и выезда
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}

// RangesOverlap проверяет пересечение двух полуоткрытых диапазонов дат
// [aIn, aOut) и [bIn, bOut)
//
// Выезд в день заезда следующего гостя пересечением НЕ считается:
// - [01.03, 04.03) и [04.03, 06.03) → НЕТ пересечения (граничат)
// - [01.03, 04.03) и [03.03, 05.03) → ЕСТЬ пересечение (ночь 03.03)
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return DateOnly(aIn).Before(DateOnly(bOut)) && DateOnly(aOut).After(DateOnly(bIn))
}

// DaysInRange возвращает все календарные дни полуоткрытого диапазона [start, end)
func DaysInRange(start, end time.Time) []time.Time {
	days := make([]time.Time, 0, max(0, NightsBetween(start, end)))
	for d := DateOnly(start); d.Before(DateOnly(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// TotalPrice вычисляет полную стоимость проживания: ночи × цена за ночь
// Движок не форматирует и не конвертирует валюту, только умножает
func TotalPrice(pricePerNight float64, checkIn, checkOut time.Time) float64 {
	nights := NightsBetween(checkIn, checkOut)
	if nights < 0 {
		return 0
	}
	return float64(nights) * pricePerNight
}
