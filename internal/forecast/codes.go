package forecast

import (
	"errors"
	"fmt"
)

// ErrUnknownWeatherCode is returned for codes outside the documented WMO set.
// An unmapped code fails the whole projection rather than being substituted
// with a placeholder; the table below is the complete supported set.
var ErrUnknownWeatherCode = errors.New("unknown weather code")

var weatherCodes = map[int]string{
	0:  "clear sky ☀ ",
	1:  "mainly clear ☀ ",
	2:  "partly cloudy ⛅ ",
	3:  "overcast ☁ ",
	45: "fog \U0001F32B ",
	48: "depositing rime fog ",
	51: "drizzle: light intensity 䈄 ",
	53: "drizzle: moderate intensity 䈄 ",
	55: "drizzle: dense intensity 䈄 ",
	56: "freezing drizzle: light intensity \U0001F326 ",
	57: "freezing drizzle: dense intensity \U0001F326 ",
	61: "rain: light intensity \U0001F326 ",
	63: "rain: moderate intensity \U0001F326 ",
	65: "rain: heavy intensity \U0001F326 ",
	66: "freezing rain: light intensity ",
	67: "freezing rain: heavy intensity ",
	71: "snow fall: slight intensity ❄ ",
	73: "snow fall: moderate intensity \U0001F328 ",
	75: "snow fall: heavy intensity \U0001F328 ",
	77: "snow grains ",
	80: "rain showers: slight \U0001F327 ",
	81: "rain showers: moderate \U0001F327 ",
	82: "rain showers: violent \U0001F327 ",
	85: "snow showers slight ",
	86: "snow showers heavy ",
	95: "thunderstorm: slight or moderate ⛈ ",
	96: "thunderstorm with slight hail ⚡ ",
	99: "thunderstorm with heavy hail ⚡ ",
}

// Translate maps a WMO-style weather code to its descriptive phrase.
func Translate(code int) (string, error) {
	phrase, ok := weatherCodes[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownWeatherCode, code)
	}
	return phrase, nil
}
