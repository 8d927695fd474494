package domain

import "time"

// DateKey renders a timestamp as a YYYY-MM-DD date key in the given zone.
// Two timestamps on the same local calendar day produce identical keys
// regardless of their UTC offsets.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// HourKey renders a timestamp as a 24-hour "HH:00" key in the given zone.
func HourKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15") + ":00"
}

// DayOfWeek derives the English weekday label from a YYYY-MM-DD date key.
// Returns "" for keys that do not parse.
func DayOfWeek(dateKey string) string {
	t, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
