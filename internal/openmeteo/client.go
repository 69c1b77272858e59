package openmeteo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"meteobot/internal/forecast"
	"meteobot/internal/httputil"
	"meteobot/internal/metrics"
)

const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// hourlyFields is the fixed parameter set requested from the provider.
const hourlyFields = "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,rain,showers,snowfall,weather_code,cloud_cover,pressure_msl,surface_pressure,wind_speed_10m,wind_direction_10m,wind_gusts_10m"

// Client fetches multi-day hourly forecasts from the Open-Meteo API. Calls
// run through a circuit breaker so a provider outage stops hammering the
// upstream instead of timing out every chat request.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		baseURL: baseURL,
		client:  httputil.NewClient(),
		breaker: cb,
	}
}

// FetchRaw requests an hourly forecast for the given coordinates and horizon
// at provider-computed local timezone, and returns the raw payload after
// validating that it decodes to an hourly series.
func (c *Client) FetchRaw(ctx context.Context, lat, lon float64, days int) ([]byte, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("hourly", hourlyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(days))
	fetchURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch forecast: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("fetch forecast: status %d: %s", resp.StatusCode, string(b))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	})
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("openmeteo", "error").Inc()
		return nil, err
	}
	metrics.ProviderCallsTotal.WithLabelValues("openmeteo", "ok").Inc()
	metrics.ProviderLatency.WithLabelValues("openmeteo").Observe(time.Since(start).Seconds())

	body := result.([]byte)
	if _, err := forecast.ParseSeries(body); err != nil {
		return nil, err
	}
	return body, nil
}
