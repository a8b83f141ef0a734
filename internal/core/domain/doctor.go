package domain

import (
	"strings"

	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

var defaultWorkingDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

type Doctor struct {
	ID                 string                `json:"id"`
	Name               string                `json:"name"`
	Specialty          string                `json:"specialty"`
	AvailableDays      []string              `json:"available_days"`
	AvailableTimeStart *json_types.TimeOfDay `json:"available_time_start"`
	AvailableTimeEnd   *json_types.TimeOfDay `json:"available_time_end"`
	Rating             float64               `json:"rating"`
	PatientsCount      int                   `json:"patients_count"`
	Experience         int                   `json:"experience"`
}

// WorksOn проверяет день недели без учета регистра
// Если рабочие дни не заданы, по умолчанию понедельник-пятница
func (d *Doctor) WorksOn(weekday string) bool {
	days := d.AvailableDays
	if len(days) == 0 {
		days = defaultWorkingDays
	}

	for _, day := range days {
		if strings.EqualFold(day, weekday) {
			return true
		}
	}
	return false
}

// WorkingHours возвращает рабочее окно врача
// Незаданные границы заменяются переданными дефолтами
func (d *Doctor) WorkingHours(defaultStart, defaultEnd json_types.TimeOfDay) (json_types.TimeOfDay, json_types.TimeOfDay) {
	start := defaultStart
	end := defaultEnd

	if d.AvailableTimeStart != nil {
		start = *d.AvailableTimeStart
	}
	if d.AvailableTimeEnd != nil {
		end = *d.AvailableTimeEnd
	}

	return start, end
}
