package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"meteobot/internal/httputil"
	"meteobot/internal/metrics"
)

const DefaultBaseURL = "https://geocode.maps.co"

// Client talks to a geocode.maps.co-style forward geocoding service. Every
// request carries the API credential and uses the direct (address to
// coordinate) search endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httputil.NewClient(),
	}
}

// Result is a resolved place. Address is the first segment of the provider's
// display name; coordinates are rounded to 2 decimal places.
type Result struct {
	Address string
	Lat     float64
	Lon     float64
}

type searchEntry struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search resolves a place name to coordinates. Transient provider errors
// (429, 5xx) are retried with exponential backoff for up to 30 seconds so a
// chat reply stays bounded; everything else fails immediately.
func (c *Client) Search(ctx context.Context, name string) (*Result, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("api_key", c.apiKey)
	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	start := time.Now()
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("search %q: %w", name, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("search %q: status %d", name, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("search %q: status %d: %s", name, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("geocode", "error").Inc()
		return nil, err
	}
	metrics.ProviderCallsTotal.WithLabelValues("geocode", "ok").Inc()
	metrics.ProviderLatency.WithLabelValues("geocode").Observe(time.Since(start).Seconds())

	var entries []searchEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("search %q: no results", name)
	}

	lat, err := strconv.ParseFloat(entries[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", entries[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(entries[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", entries[0].Lon, err)
	}

	return &Result{
		Address: strings.Split(entries[0].DisplayName, ", ")[0],
		Lat:     round2(lat),
		Lon:     round2(lon),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
