package domain

// descriptors is the closed weather-descriptor vocabulary. Classification
// never produces a value outside this set, and the embedding cache holds one
// vector per entry in this order. Tie-breaks during similarity ranking fall
// to the earlier entry.
var descriptors = []string{
	"Partly Cloudy",
	"Mostly Cloudy",
	"Cloudy",
	"Partly Clear",
	"Mostly Clear",
	"Clear",
	"Partly Sunny",
	"Mostly Sunny",
	"Sunny",
	"Fog",
	"Hail",
	"Rain",
	"Snow",
	"Thunderstorm",
	"Windy",
}

// Descriptors returns the canonical descriptor vocabulary in ranking order.
// Callers receive a copy; the vocabulary itself is immutable.
func Descriptors() []string {
	out := make([]string, len(descriptors))
	copy(out, descriptors)
	return out
}

// IsDescriptor reports whether s is a member of the canonical vocabulary.
func IsDescriptor(s string) bool {
	for _, d := range descriptors {
		if d == s {
			return true
		}
	}
	return false
}
