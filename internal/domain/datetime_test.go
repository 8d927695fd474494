package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestDateKey_SameLocalDayDifferentOffsets(t *testing.T) {
	loc := mustZone(t, "America/New_York")

	// 2024-11-03 is the US DST fall-back date: early morning is UTC-4,
	// the afternoon is UTC-5. Both are the same New York calendar day.
	early := time.Date(2024, 11, 3, 1, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	late := time.Date(2024, 11, 3, 13, 0, 0, 0, time.FixedZone("EST", -5*3600))

	assert.Equal(t, "2024-11-03", DateKey(early, loc))
	assert.Equal(t, DateKey(early, loc), DateKey(late, loc))
}

func TestDateKey_MidnightBoundary(t *testing.T) {
	loc := mustZone(t, "America/New_York")

	before := time.Date(2024, 6, 1, 23, 59, 0, 0, loc)
	after := time.Date(2024, 6, 2, 0, 1, 0, 0, loc)

	assert.Equal(t, "2024-06-01", DateKey(before, loc))
	assert.Equal(t, "2024-06-02", DateKey(after, loc))
}

func TestDateKey_ConvertsFromUTC(t *testing.T) {
	loc := mustZone(t, "America/New_York")

	// 03:00 UTC is still the previous evening in New York.
	utc := time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01", DateKey(utc, loc))
}

func TestHourKey_24HourForm(t *testing.T) {
	loc := mustZone(t, "America/New_York")

	afternoon := time.Date(2024, 11, 3, 13, 0, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "13:00", HourKey(afternoon, loc))

	midnight := time.Date(2024, 6, 2, 0, 15, 0, 0, loc)
	assert.Equal(t, "00:00", HourKey(midnight, loc))
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, "Sunday", DayOfWeek("2024-11-03"))
	assert.Equal(t, "Monday", DayOfWeek("2024-11-04"))
	assert.Empty(t, DayOfWeek("not-a-date"))
}
