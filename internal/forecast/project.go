package forecast

import (
	"encoding/json"
	"errors"
	"fmt"

	"meteobot/internal/models"
)

// ErrMalformedSeries indicates a structurally invalid hourly payload: missing
// fields, arrays too short for the requested horizon, or undecodable JSON.
var ErrMalformedSeries = errors.New("malformed hourly series")

// SampleHours are the four fixed local hours sampled per day:
// night, morning, day, evening.
var SampleHours = [4]int{1, 7, 14, 19}

// DaySnapshot holds the four fixed-hour readings for one calendar day,
// ordered night, morning, day, evening.
type DaySnapshot struct {
	Time            [4]string
	Temperature     [4]float64
	Humidity        [4]int
	ApparentTemp    [4]float64
	Precipitation   [4]float64
	Rain            [4]float64
	Showers         [4]float64
	Snowfall        [4]float64
	Condition       [4]string
	PressureMSL     [4]float64
	SurfacePressure [4]float64
	CloudCover      [4]int
	WindSpeed       [4]float64
	WindDirection   [4]int
	WindGusts       [4]float64
}

// ParseSeries decodes a raw provider payload into the typed hourly series.
// A payload without an hourly object, or one that is not valid JSON, fails
// with ErrMalformedSeries.
func ParseSeries(raw []byte) (*models.HourlySeries, error) {
	var payload struct {
		Hourly *models.HourlySeries `json:"hourly"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSeries, err)
	}
	if payload.Hourly == nil {
		return nil, fmt.Errorf("%w: missing hourly object", ErrMalformedSeries)
	}
	return payload.Hourly, nil
}

// Project slices the hourly series into one DaySnapshot per day, sampling
// absolute hourly indices 24*day + {1, 7, 14, 19}. It is pure: no I/O, no
// mutation of the input, identical output for identical input.
func Project(series *models.HourlySeries, days int) ([]DaySnapshot, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrMalformedSeries, days)
	}

	// The last index touched is 24*(days-1) + 19; every field array must
	// reach at least that far.
	need := 24*(days-1) + SampleHours[3] + 1
	if err := checkLengths(series, need); err != nil {
		return nil, err
	}

	snapshots := make([]DaySnapshot, 0, days)
	for d := 0; d < days; d++ {
		var snap DaySnapshot
		for i, h := range SampleHours {
			idx := 24*d + h
			snap.Time[i] = series.Time[idx]
			snap.Temperature[i] = series.Temperature2m[idx]
			snap.Humidity[i] = series.RelativeHumidity[idx]
			snap.ApparentTemp[i] = series.ApparentTemp[idx]
			snap.Precipitation[i] = series.Precipitation[idx]
			snap.Rain[i] = series.Rain[idx]
			snap.Showers[i] = series.Showers[idx]
			snap.Snowfall[i] = series.Snowfall[idx]
			snap.PressureMSL[i] = series.PressureMSL[idx]
			snap.SurfacePressure[i] = series.SurfacePressure[idx]
			snap.CloudCover[i] = series.CloudCover[idx]
			snap.WindSpeed[i] = series.WindSpeed10m[idx]
			snap.WindDirection[i] = series.WindDirection10m[idx]
			snap.WindGusts[i] = series.WindGusts10m[idx]

			phrase, err := Translate(series.WeatherCode[idx])
			if err != nil {
				return nil, fmt.Errorf("hour %d: %w", idx, err)
			}
			snap.Condition[i] = phrase
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func checkLengths(series *models.HourlySeries, need int) error {
	fields := []struct {
		name string
		n    int
	}{
		{"time", len(series.Time)},
		{"temperature_2m", len(series.Temperature2m)},
		{"relative_humidity_2m", len(series.RelativeHumidity)},
		{"apparent_temperature", len(series.ApparentTemp)},
		{"precipitation", len(series.Precipitation)},
		{"rain", len(series.Rain)},
		{"showers", len(series.Showers)},
		{"snowfall", len(series.Snowfall)},
		{"weather_code", len(series.WeatherCode)},
		{"cloud_cover", len(series.CloudCover)},
		{"pressure_msl", len(series.PressureMSL)},
		{"surface_pressure", len(series.SurfacePressure)},
		{"wind_speed_10m", len(series.WindSpeed10m)},
		{"wind_direction_10m", len(series.WindDirection10m)},
		{"wind_gusts_10m", len(series.WindGusts10m)},
	}
	for _, f := range fields {
		if f.n < need {
			return fmt.Errorf("%w: field %s has %d entries, need %d", ErrMalformedSeries, f.name, f.n, need)
		}
	}
	return nil
}
