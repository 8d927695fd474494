package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedResponse indicates a provider payload missing the expected
// properties.periods path.
var ErrMalformedResponse = errors.New("malformed forecast response")

// PrecipitationValue carries a precipitation probability that may be null
// in the provider payload.
type PrecipitationValue struct {
	UnitCode string `json:"unitCode"`
	Value    *int   `json:"value"`
}

// WeatherPeriod is one discrete time-slice forecast from the provider,
// either hourly or half-day granularity. Read-only to the pipeline.
type WeatherPeriod struct {
	Number                     int                `json:"number"`
	Name                       string             `json:"name"`
	StartTime                  time.Time          `json:"startTime"`
	EndTime                    time.Time          `json:"endTime"`
	IsDaytime                  bool               `json:"isDaytime"`
	Temperature                int                `json:"temperature"`
	TemperatureUnit            string             `json:"temperatureUnit"`
	ProbabilityOfPrecipitation PrecipitationValue `json:"probabilityOfPrecipitation"`
	WindSpeed                  string             `json:"windSpeed"` // e.g. "10 to 15 mph"
	WindDirection              string             `json:"windDirection"`
	ShortForecast              string             `json:"shortForecast"`
	DetailedForecast           string             `json:"detailedForecast"`
}

// forecastEnvelope mirrors the provider's GeoJSON-style response. Pointer
// fields distinguish an absent path from an empty period list.
type forecastEnvelope struct {
	Properties *struct {
		Periods *[]WeatherPeriod `json:"periods"`
	} `json:"properties"`
}

// ExtractPeriods pulls the flat period list out of a raw provider envelope,
// in provider order. Returns ErrMalformedResponse when properties.periods
// is missing.
func ExtractPeriods(payload []byte) ([]WeatherPeriod, error) {
	var envelope forecastEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope.Properties == nil || envelope.Properties.Periods == nil {
		return nil, fmt.Errorf("%w: missing properties.periods", ErrMalformedResponse)
	}
	return *envelope.Properties.Periods, nil
}

// FilterPeriods keeps the periods whose start or end falls on one of the
// given local dates. Provider order is preserved.
func FilterPeriods(periods []WeatherPeriod, dates []string, loc *time.Location) []WeatherPeriod {
	wanted := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		wanted[d] = struct{}{}
	}

	var kept []WeatherPeriod
	for _, p := range periods {
		_, startOK := wanted[DateKey(p.StartTime, loc)]
		_, endOK := wanted[DateKey(p.EndTime, loc)]
		if startOK || endOK {
			kept = append(kept, p)
		}
	}
	return kept
}

// DateWindow returns the date keys for today through today+days in the
// given zone, using the package clock.
func DateWindow(days int, loc *time.Location) []string {
	now := clock.Now()
	dates := make([]string, 0, days+1)
	for i := 0; i <= days; i++ {
		dates = append(dates, DateKey(now.AddDate(0, 0, i), loc))
	}
	return dates
}
