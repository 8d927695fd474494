package domain

import (
	"regexp"
	"strconv"
	"time"
)

// windSpeedRe captures the first run of decimal digits in a provider wind
// string, e.g. "10 to 15 mph" -> "10". Strings like "Calm" have no match.
var windSpeedRe = regexp.MustCompile(`\d+`)

// ParseWindSpeed extracts the leading integer magnitude from a wind-speed
// string. Returns nil when the string carries no digits; the value is then
// recorded as absent rather than failing the fold.
func ParseWindSpeed(s string) *int {
	match := windSpeedRe.FindString(s)
	if match == "" {
		return nil
	}
	v, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &v
}

// entrySet accumulates partial ForecastEntry values keyed by date while
// preserving first-seen date order.
type entrySet struct {
	byDate map[string]*ForecastEntry
	order  []string
}

func newEntrySet() *entrySet {
	return &entrySet{byDate: make(map[string]*ForecastEntry)}
}

func (s *entrySet) lookupOrCreate(date string) *ForecastEntry {
	if e, ok := s.byDate[date]; ok {
		return e
	}
	e := &ForecastEntry{Date: date, DayOfWeek: DayOfWeek(date)}
	s.byDate[date] = e
	s.order = append(s.order, date)
	return e
}

func (s *entrySet) entries() []*ForecastEntry {
	out := make([]*ForecastEntry, 0, len(s.order))
	for _, date := range s.order {
		out = append(out, s.byDate[date])
	}
	return out
}

// AggregateHourly folds hourly periods into per-date partial entries with
// hour-keyed forecast, temperature, precipitation, and wind maps plus
// running low/high temperatures. The first temperature folded for a date
// seeds both bounds. Output is in first-seen date order.
func AggregateHourly(periods []WeatherPeriod, loc *time.Location) []*ForecastEntry {
	set := newEntrySet()
	for _, p := range periods {
		date := DateKey(p.StartTime, loc)
		hour := HourKey(p.StartTime, loc)

		entry, seen := set.byDate[date]
		if !seen {
			entry = set.lookupOrCreate(date)
			entry.HourlyForecast = make(map[string]string)
			entry.HourlyTemperature = make(map[string]int)
			entry.HourlyPrecipitation = make(map[string]*int)
			entry.HourlyWindSpeed = make(map[string]*int)
			entry.LowTemp = p.Temperature
			entry.HighTemp = p.Temperature
		}

		entry.HourlyForecast[hour] = p.ShortForecast
		entry.HourlyTemperature[hour] = p.Temperature
		entry.HourlyPrecipitation[hour] = p.ProbabilityOfPrecipitation.Value
		entry.HourlyWindSpeed[hour] = ParseWindSpeed(p.WindSpeed)

		if p.Temperature < entry.LowTemp {
			entry.LowTemp = p.Temperature
		}
		if p.Temperature > entry.HighTemp {
			entry.HighTemp = p.Temperature
		}
	}
	return set.entries()
}

// AggregateHalfDay folds daytime/nighttime periods into per-date partial
// entries carrying the four forecast text fields. A date's two halves may
// arrive in either order; the unobserved half stays empty.
func AggregateHalfDay(periods []WeatherPeriod, loc *time.Location) []*ForecastEntry {
	set := newEntrySet()
	for _, p := range periods {
		entry := set.lookupOrCreate(DateKey(p.StartTime, loc))
		if p.IsDaytime {
			entry.ShortDaytimeForecast = p.ShortForecast
			entry.DetailedDaytimeForecast = p.DetailedForecast
		} else {
			entry.ShortNighttimeForecast = p.ShortForecast
			entry.DetailedNighttimeForecast = p.DetailedForecast
		}
	}
	return set.entries()
}

// MergeForecasts outer-joins the hourly and half-day partial sets on date.
// Half-day text fields populate the matching hourly entry; hourly fields are
// retained as-is. Output preserves the hourly first-seen date order, with
// half-day-only dates appended in their own first-seen order.
func MergeForecasts(hourly, halfDay []*ForecastEntry) []*ForecastEntry {
	halfDayByDate := make(map[string]*ForecastEntry, len(halfDay))
	for _, e := range halfDay {
		halfDayByDate[e.Date] = e
	}

	matched := make(map[string]struct{}, len(hourly))
	merged := make([]*ForecastEntry, 0, len(hourly)+len(halfDay))

	for _, h := range hourly {
		out := *h
		if text, ok := halfDayByDate[h.Date]; ok {
			out.ShortDaytimeForecast = text.ShortDaytimeForecast
			out.DetailedDaytimeForecast = text.DetailedDaytimeForecast
			out.ShortNighttimeForecast = text.ShortNighttimeForecast
			out.DetailedNighttimeForecast = text.DetailedNighttimeForecast
			matched[h.Date] = struct{}{}
		}
		merged = append(merged, &out)
	}

	for _, e := range halfDay {
		if _, ok := matched[e.Date]; ok {
			continue
		}
		out := *e
		merged = append(merged, &out)
	}
	return merged
}
