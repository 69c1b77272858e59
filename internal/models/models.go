package models

import (
	"time"
)

// User is a registered chat user. TelegramID is the external chat identity;
// ID is the store's own key that cities hang off.
type User struct {
	ID         int64
	TelegramID int64
	TokenHash  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	IsActive   bool
}

// City is a geocoded place. Created once per unique name on first successful
// geocode and never mutated afterwards.
type City struct {
	ID        int64
	UserID    int64
	Name      string
	Latitude  float64
	Longitude float64
}

// Forecast holds the most recent raw provider payload for a city. At most one
// row exists per city; CapturedAt is the capture time of Data, not the request
// time.
type Forecast struct {
	ID         int64
	CityID     int64
	Data       string
	CapturedAt time.Time
}

// HourlySeries is the typed view of the provider's hourly arrays. All slices
// run in lockstep; consumers validate lengths before indexing.
type HourlySeries struct {
	Time             []string  `json:"time"`
	Temperature2m    []float64 `json:"temperature_2m"`
	RelativeHumidity []int     `json:"relative_humidity_2m"`
	ApparentTemp     []float64 `json:"apparent_temperature"`
	IsDay            []int     `json:"is_day"`
	Precipitation    []float64 `json:"precipitation"`
	Rain             []float64 `json:"rain"`
	Showers          []float64 `json:"showers"`
	Snowfall         []float64 `json:"snowfall"`
	WeatherCode      []int     `json:"weather_code"`
	CloudCover       []int     `json:"cloud_cover"`
	PressureMSL      []float64 `json:"pressure_msl"`
	SurfacePressure  []float64 `json:"surface_pressure"`
	WindSpeed10m     []float64 `json:"wind_speed_10m"`
	WindDirection10m []int     `json:"wind_direction_10m"`
	WindGusts10m     []float64 `json:"wind_gusts_10m"`
}
