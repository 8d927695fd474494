package domain

// ForecastEntry is the per-calendar-date aggregate handed to the sink.
// The date key uniquely identifies an entry and acts as the merge join key.
// Hourly maps are keyed by "HH:00" in the configured zone; each hour appears
// at most once per entry (last write wins on provider duplicates).
type ForecastEntry struct {
	Date      string `json:"date"` // YYYY-MM-DD in the configured zone
	DayOfWeek string `json:"dayOfWeek"`

	HourlyForecast      map[string]string `json:"hourlyForecast,omitempty"`
	HourlyTemperature   map[string]int    `json:"hourlyTemperature,omitempty"`
	HourlyPrecipitation map[string]*int   `json:"hourlyPrecipitation,omitempty"`
	HourlyWindSpeed     map[string]*int   `json:"hourlyWindSpeed,omitempty"`

	// Running bounds over folded temperatures. The first folded value seeds
	// both, so LowTemp <= HighTemp holds once any temperature was observed.
	LowTemp  int `json:"lowTemp"`
	HighTemp int `json:"highTemp"`

	ShortDaytimeForecast      string `json:"shortDaytimeForecast"`
	DetailedDaytimeForecast   string `json:"detailedDaytimeForecast"`
	ShortNighttimeForecast    string `json:"shortNighttimeForecast"`
	DetailedNighttimeForecast string `json:"detailedNighttimeForecast"`

	DaytimeWeatherDescriptor   string `json:"daytimeWeatherDescriptor"`
	NighttimeWeatherDescriptor string `json:"nighttimeWeatherDescriptor"`
}
