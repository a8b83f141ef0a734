package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/hospital-booking-service/internal/core/json_types"
)

func mustTimeOfDay(t *testing.T, str string) json_types.TimeOfDay {
	t.Helper()
	parsed, err := json_types.ParseTimeOfDay(str)
	require.NoError(t, err)
	return parsed
}

func slotStrings(slots []json_types.TimeOfDay) []string {
	result := make([]string, 0, len(slots))
	for _, slot := range slots {
		result = append(result, slot.String())
	}
	return result
}

func TestGenerateTimeSlots_FullWorkingDay(t *testing.T) {
	start := mustTimeOfDay(t, "09:00:00")
	end := mustTimeOfDay(t, "17:00:00")

	slots := GenerateTimeSlots(start, end, 30*time.Minute)

	require.Len(t, slots, 16)
	assert.Equal(t, "09:00:00", slots[0].String())
	assert.Equal(t, "09:30:00", slots[1].String())
	assert.Equal(t, "16:30:00", slots[15].String())
}

func TestGenerateTimeSlots_Deterministic(t *testing.T) {
	start := mustTimeOfDay(t, "10:15:00")
	end := mustTimeOfDay(t, "13:45:00")

	first := GenerateTimeSlots(start, end, 30*time.Minute)
	second := GenerateTimeSlots(start, end, 30*time.Minute)

	assert.Equal(t, slotStrings(first), slotStrings(second))
}

func TestGenerateTimeSlots_SlotsFitInsideWindow(t *testing.T) {
	interval := 30 * time.Minute
	cases := []struct {
		start string
		end   string
	}{
		{"09:00:00", "17:00:00"},
		{"09:00:00", "17:15:00"},
		{"08:30:00", "12:00:00"},
		{"09:10:00", "09:50:00"},
		{"23:00:00", "23:59:00"},
	}

	for _, tc := range cases {
		start := mustTimeOfDay(t, tc.start)
		end := mustTimeOfDay(t, tc.end)

		for _, slot := range GenerateTimeSlots(start, end, interval) {
			assert.False(t, slot.Before(start), "slot %s before window start %s", slot, tc.start)
			assert.False(t, slot.Add(interval).After(end), "slot %s overruns window end %s", slot, tc.end)
		}
	}
}

func TestGenerateTimeSlots_DegeneratedWindows(t *testing.T) {
	nine := mustTimeOfDay(t, "09:00:00")
	ten := mustTimeOfDay(t, "10:00:00")

	// start == end
	assert.Empty(t, GenerateTimeSlots(nine, nine, 30*time.Minute))
	// start > end
	assert.Empty(t, GenerateTimeSlots(ten, nine, 30*time.Minute))
	// окно меньше интервала
	assert.Empty(t, GenerateTimeSlots(nine, mustTimeOfDay(t, "09:20:00"), 30*time.Minute))
	// нулевой и отрицательный интервал
	assert.Empty(t, GenerateTimeSlots(nine, ten, 0))
	assert.Empty(t, GenerateTimeSlots(nine, ten, -30*time.Minute))
}

func TestGenerateTimeSlots_ExactSingleSlot(t *testing.T) {
	start := mustTimeOfDay(t, "09:00:00")
	end := mustTimeOfDay(t, "09:30:00")

	slots := GenerateTimeSlots(start, end, 30*time.Minute)

	require.Len(t, slots, 1)
	assert.Equal(t, "09:00:00", slots[0].String())
}
