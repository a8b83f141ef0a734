package services

import (
	"time"

	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

// GenerateTimeSlots генерирует кандидатные слоты от start с шагом interval
// Слот предлагается только если целиком помещается до end:
// последний слот — end минус interval
// Чистая функция: одинаковый вход — одинаковый выход
func GenerateTimeSlots(start, end json_types.TimeOfDay, interval time.Duration) []json_types.TimeOfDay {
	slots := make([]json_types.TimeOfDay, 0)

	// Некорректное окно или интервал — пустой результат, не ошибка
	// Незаполненные часы врача не должны ломать запись на прием
	if interval <= 0 || !start.Before(end) {
		return slots
	}

	for current := start; !current.Add(interval).After(end); current = current.Add(interval) {
		slots = append(slots, current)
	}

	return slots
}
