// Package domain models National Weather Service (NWS) gridpoint forecast
// data and its aggregation into per-day records.
//
// # Data Source
//
// Forecasts come from the NWS API gridpoint endpoints, e.g.
// https://api.weather.gov/gridpoints/OKX/31,29/forecast. Two series cover the
// same days at different granularities:
//
//	hourly:   one period per hour, carrying temperature, precipitation
//	          probability, wind speed, and a short free-text forecast.
//	half-day: one period per daytime or nighttime half, carrying short and
//	          detailed free-text descriptions but no hourly numeric detail.
//
// Both arrive as a GeoJSON-style envelope with the period list at
// properties.periods.
//
// # NWS Data Conventions
//
// Wind speed format:
//
//	A free-text string embedding an integer magnitude and unit, e.g.
//	"10 mph" or "10 to 15 mph". The first run of digits is taken as the
//	magnitude; strings like "Calm" carry no digits and parse to absent.
//
// Precipitation probability:
//
//	probabilityOfPrecipitation.value may be JSON null when the provider has
//	no estimate. Absent values are carried through as null, never as zero.
//
// Timestamps:
//
//	RFC 3339 with a UTC offset, e.g. "2024-11-03T13:00:00-05:00". Date and
//	hour keys are always derived in the configured forecast zone, not UTC and
//	not the process zone, so entries bucket correctly across DST transitions.
//
// # Aggregation
//
// Each series folds into partial [ForecastEntry] values keyed by local date:
// the hourly series fills the hour-keyed maps and running low/high
// temperatures, the half-day series fills the four forecast text fields.
// [MergeForecasts] outer-joins the two partial sets on date, hourly
// first-seen order first, half-day-only dates appended.
//
// # Descriptor Vocabulary
//
// The closed 15-entry vocabulary in [Descriptors] is the only classifier
// output. Its order is load-bearing: the embedding cache is built in this
// order and similarity ties resolve to the earlier entry.
package domain
