package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date — календарная дата без времени, формат "2006-01-02"
type Date struct {
	Date time.Time
}

// ParseDate парсит дату из строки, сначала "2006-01-02", потом RFC3339
func ParseDate(str string) (Date, error) {
	parsedDate, err := time.Parse("2006-01-02", str)
	if err != nil {
		parsedDate, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return Date{}, fmt.Errorf("failed to parse date: %v", err)
		}
	}
	return Date{Date: parsedDate}, nil
}

// Weekday возвращает день недели в нижнем регистре, например "monday"
func (d Date) Weekday() string {
	switch d.Date.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

func (d Date) String() string {
	return d.Date.Format("2006-01-02")
}

func (d Date) IsZero() bool {
	return d.Date.IsZero()
}

func (d *Date) UnmarshalJSON(data []byte) error {
	// Принимаем только строку в кавычках, любой другой токен — ошибка
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a json string, got %s", string(data))
	}
	str := string(data[1 : len(data)-1])
	parsedDate, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsedDate
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
