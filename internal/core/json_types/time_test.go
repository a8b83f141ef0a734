package json_types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	full, err := ParseTimeOfDay("09:30:00")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", full.String())

	// Формат без секунд тоже принимаем
	short, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", short.String())

	_, err = ParseTimeOfDay("9:3")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("25:00:00")
	assert.Error(t, err)
}

func TestTimeOfDayAdd(t *testing.T) {
	start := NewTimeOfDay(16, 30)

	assert.Equal(t, "17:00:00", start.Add(30*time.Minute).String())
	assert.True(t, start.Add(30*time.Minute).After(start))
	assert.True(t, start.Before(start.Add(time.Minute)))
	assert.True(t, start.Equal(NewTimeOfDay(16, 30)))
}

func TestTimeOfDayJSON(t *testing.T) {
	raw, err := json.Marshal(NewTimeOfDay(9, 0))
	require.NoError(t, err)
	assert.Equal(t, `"09:00:00"`, string(raw))

	var parsed TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"14:30:00"`), &parsed))
	assert.Equal(t, "14:30:00", parsed.String())
}

func TestTimeOfDayJSON_RejectsNonStringTokens(t *testing.T) {
	cases := []string{`5`, `null`, `true`, `{}`, `[]`, `""`}
	for _, raw := range cases {
		var parsed TimeOfDay
		assert.Error(t, json.Unmarshal([]byte(raw), &parsed), "token %s", raw)
	}
}

func TestDateJSON(t *testing.T) {
	raw, err := json.Marshal(Date{Date: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-31"`, string(raw))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-31"`), &parsed))
	assert.Equal(t, "2026-08-31", parsed.String())
}

func TestDateJSON_RejectsNonStringTokens(t *testing.T) {
	cases := []string{`5`, `null`, `false`, `{}`, `""`}
	for _, raw := range cases {
		var parsed Date
		assert.Error(t, json.Unmarshal([]byte(raw), &parsed), "token %s", raw)
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", date.String())
	assert.Equal(t, "monday", date.Weekday())

	_, err = ParseDate("31-08-2026")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}
