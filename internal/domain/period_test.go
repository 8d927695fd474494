package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPeriods_ProviderOrder(t *testing.T) {
	payload := []byte(`{
		"properties": {
			"periods": [
				{"number": 1, "shortForecast": "Sunny", "startTime": "2024-11-03T13:00:00-05:00", "endTime": "2024-11-03T14:00:00-05:00"},
				{"number": 2, "shortForecast": "Rain", "startTime": "2024-11-03T14:00:00-05:00", "endTime": "2024-11-03T15:00:00-05:00"}
			]
		}
	}`)

	periods, err := ExtractPeriods(payload)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "Sunny", periods[0].ShortForecast)
	assert.Equal(t, "Rain", periods[1].ShortForecast)
}

func TestExtractPeriods_MissingPath(t *testing.T) {
	for name, payload := range map[string]string{
		"no properties": `{"type": "Feature"}`,
		"no periods":    `{"properties": {"units": "us"}}`,
		"not json":      `<html>rate limited</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractPeriods([]byte(payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestExtractPeriods_EmptyListIsNotMalformed(t *testing.T) {
	periods, err := ExtractPeriods([]byte(`{"properties": {"periods": []}}`))
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestExtractPeriods_NullPrecipitation(t *testing.T) {
	payload := []byte(`{
		"properties": {
			"periods": [
				{"number": 1, "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": null}}
			]
		}
	}`)

	periods, err := ExtractPeriods(payload)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Nil(t, periods[0].ProbabilityOfPrecipitation.Value)
}

func TestFilterPeriods_KeepsWindowDates(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	inWindow := WeatherPeriod{
		StartTime: time.Date(2024, 11, 3, 13, 0, 0, 0, loc),
		EndTime:   time.Date(2024, 11, 3, 14, 0, 0, 0, loc),
	}
	// Starts before the window but ends inside it: kept.
	straddling := WeatherPeriod{
		StartTime: time.Date(2024, 11, 2, 23, 0, 0, 0, loc),
		EndTime:   time.Date(2024, 11, 3, 6, 0, 0, 0, loc),
	}
	outside := WeatherPeriod{
		StartTime: time.Date(2024, 11, 10, 13, 0, 0, 0, loc),
		EndTime:   time.Date(2024, 11, 10, 14, 0, 0, 0, loc),
	}

	kept := FilterPeriods([]WeatherPeriod{inWindow, straddling, outside}, []string{"2024-11-03", "2024-11-04"}, loc)
	require.Len(t, kept, 2)
	assert.Equal(t, inWindow.StartTime, kept[0].StartTime)
	assert.Equal(t, straddling.StartTime, kept[1].StartTime)
}

func TestDateWindow_UsesClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 11, 3, 18, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	dates := DateWindow(2, loc)
	assert.Equal(t, []string{"2024-11-03", "2024-11-04", "2024-11-05"}, dates)
}
