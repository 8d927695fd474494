// Command genmock generates NWS-shaped forecast fixtures plus the merged
// day records the pipeline would produce from them. It runs the actual
// domain aggregation code so fixtures never drift from pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -zone America/New_York \
//	  -hourly-out data/mock/forecast_hourly.json \
//	  -halfday-out data/mock/forecast_halfday.json \
//	  -entries-out data/mock/forecast_entries.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

// baseDate anchors the fixture window. The clock is frozen at noon on
// this day so regenerated fixtures are byte-identical.
var baseDate = time.Date(2024, time.November, 3, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	zone := flag.String("zone", "America/New_York", "IANA time zone for day bucketing")
	hourlyOut := flag.String("hourly-out", "", "output path for the hourly forecast envelope")
	halfDayOut := flag.String("halfday-out", "", "output path for the half-day forecast envelope")
	entriesOut := flag.String("entries-out", "", "output path for the expected merged entries")
	days := flag.Int("days", 5, "days beyond today covered by the fixtures")
	flag.Parse()

	if *hourlyOut == "" || *halfDayOut == "" || *entriesOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -hourly-out, -halfday-out, -entries-out")
	}

	loc, err := time.LoadLocation(*zone)
	if err != nil {
		return fmt.Errorf("loading zone %q: %w", *zone, err)
	}

	domain.SetClock(clockwork.NewFakeClockAt(baseDate.Add(12 * time.Hour)))
	defer domain.SetClock(nil)

	hourly := hourlyPeriods(loc, *days)
	halfDay := halfDayPeriods(loc, *days)

	if err := writeJSON(*hourlyOut, envelope(hourly)); err != nil {
		return fmt.Errorf("writing hourly fixture: %w", err)
	}
	log.Printf("wrote hourly fixture: %s (%d periods)", *hourlyOut, len(hourly))

	if err := writeJSON(*halfDayOut, envelope(halfDay)); err != nil {
		return fmt.Errorf("writing half-day fixture: %w", err)
	}
	log.Printf("wrote half-day fixture: %s (%d periods)", *halfDayOut, len(halfDay))

	entries := domain.MergeForecasts(
		domain.AggregateHourly(hourly, loc),
		domain.AggregateHalfDay(halfDay, loc),
	)
	if err := writeJSON(*entriesOut, entries); err != nil {
		return fmt.Errorf("writing entries fixture: %w", err)
	}
	log.Printf("wrote merged entries fixture: %s (%d entries)", *entriesOut, len(entries))

	printStats(entries)
	return nil
}

// conditions cycles through a plausible week of weather. Indexed by day so
// each day of the fixture looks different.
var conditions = []struct {
	short  string
	precip int
	temp   int
}{
	{"Sunny", 0, 68},
	{"Partly Cloudy", 10, 64},
	{"Rain", 80, 55},
	{"Mostly Cloudy", 30, 58},
	{"Clear", 0, 61},
	{"Thunderstorm", 90, 66},
}

func hourlyPeriods(loc *time.Location, days int) []domain.WeatherPeriod {
	var periods []domain.WeatherPeriod
	number := 1
	dayStart := time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), 0, 0, 0, 0, loc)
	for d := 0; d <= days; d++ {
		cond := conditions[d%len(conditions)]
		for h := 0; h < 24; h++ {
			start := dayStart.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
			// Rough diurnal curve: coolest before dawn, warmest mid-afternoon.
			temp := cond.temp - 6
			if h >= 8 && h < 20 {
				temp = cond.temp + (h-8)/2
			}
			precip := cond.precip
			periods = append(periods, domain.WeatherPeriod{
				Number:          number,
				StartTime:       start,
				EndTime:         start.Add(time.Hour),
				IsDaytime:       h >= 6 && h < 18,
				Temperature:     temp,
				TemperatureUnit: "F",
				ProbabilityOfPrecipitation: domain.PrecipitationValue{
					UnitCode: "wmoUnit:percent",
					Value:    &precip,
				},
				WindSpeed:     fmt.Sprintf("%d mph", 5+d),
				WindDirection: "SW",
				ShortForecast: cond.short,
			})
			number++
		}
	}
	return periods
}

func halfDayPeriods(loc *time.Location, days int) []domain.WeatherPeriod {
	names := []string{"Today", "Tonight", "Monday", "Monday Night", "Tuesday", "Tuesday Night",
		"Wednesday", "Wednesday Night", "Thursday", "Thursday Night", "Friday", "Friday Night",
		"Saturday", "Saturday Night"}

	var periods []domain.WeatherPeriod
	dayStart := time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), 6, 0, 0, 0, loc)
	number := 1
	for d := 0; d <= days; d++ {
		cond := conditions[d%len(conditions)]
		for half := 0; half < 2; half++ {
			start := dayStart.AddDate(0, 0, d).Add(time.Duration(half) * 12 * time.Hour)
			name := fmt.Sprintf("Day %d", d)
			if number-1 < len(names) {
				name = names[number-1]
			}
			short := cond.short
			detail := fmt.Sprintf("%s, with a high near %d.", cond.short, cond.temp+5)
			if half == 1 {
				detail = fmt.Sprintf("%s, with a low around %d.", cond.short, cond.temp-6)
			}
			periods = append(periods, domain.WeatherPeriod{
				Number:           number,
				Name:             name,
				StartTime:        start,
				EndTime:          start.Add(12 * time.Hour),
				IsDaytime:        half == 0,
				Temperature:      cond.temp + 5 - half*11,
				TemperatureUnit:  "F",
				WindSpeed:        fmt.Sprintf("%d to %d mph", 5+d, 10+d),
				WindDirection:    "SW",
				ShortForecast:    short,
				DetailedForecast: detail,
			})
			number++
		}
	}
	return periods
}

// envelope wraps periods in the GeoJSON shape the NWS gridpoint endpoints
// return, so fixtures can feed the adapter parsing path directly.
func envelope(periods []domain.WeatherPeriod) any {
	return map[string]any{
		"properties": map[string]any{
			"updated": baseDate.Add(11 * time.Hour).Format(time.RFC3339),
			"units":   "us",
			"periods": periods,
		},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(entries []*domain.ForecastEntry) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total entries: %d\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %s (%s): low=%d high=%d hours=%d day=%q night=%q\n",
			e.Date, e.DayOfWeek, e.LowTemp, e.HighTemp,
			len(e.HourlyForecast), e.ShortDaytimeForecast, e.ShortNighttimeForecast)
	}
}
