package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay — время дня без даты и таймзоны, формат "15:04:05"
type TimeOfDay struct {
	Time time.Time
}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Time: time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)}
}

// ParseTimeOfDay парсит время из строки, сначала "15:04:05", потом "15:04"
func ParseTimeOfDay(str string) (TimeOfDay, error) {
	parsedTime, err := time.Parse("15:04:05", str)
	if err != nil {
		parsedTime, err = time.Parse("15:04", str)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("failed to parse time: %v", err)
		}
	}
	return TimeOfDay{Time: parsedTime}, nil
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return TimeOfDay{Time: t.Time.Add(d)}
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Time.Before(other.Time)
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Time.After(other.Time)
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Time.Equal(other.Time)
}

func (t TimeOfDay) String() string {
	return t.Time.Format("15:04:05")
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	// Принимаем только строку в кавычках, любой другой токен — ошибка
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("time must be a json string, got %s", string(data))
	}
	str := string(data[1 : len(data)-1])
	parsedTime, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}
	*t = parsedTime
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
