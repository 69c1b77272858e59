package openmeteo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meteobot/internal/forecast"
	"meteobot/internal/models"
)

func validPayload(t *testing.T, n int) []byte {
	t.Helper()
	s := &models.HourlySeries{}
	for i := 0; i < n; i++ {
		s.Time = append(s.Time, "2026-08-30T00:00")
		s.Temperature2m = append(s.Temperature2m, 20)
		s.RelativeHumidity = append(s.RelativeHumidity, 50)
		s.ApparentTemp = append(s.ApparentTemp, 19)
		s.IsDay = append(s.IsDay, 1)
		s.Precipitation = append(s.Precipitation, 0)
		s.Rain = append(s.Rain, 0)
		s.Showers = append(s.Showers, 0)
		s.Snowfall = append(s.Snowfall, 0)
		s.WeatherCode = append(s.WeatherCode, 0)
		s.CloudCover = append(s.CloudCover, 10)
		s.PressureMSL = append(s.PressureMSL, 1013)
		s.SurfacePressure = append(s.SurfacePressure, 1000)
		s.WindSpeed10m = append(s.WindSpeed10m, 5)
		s.WindDirection10m = append(s.WindDirection10m, 180)
		s.WindGusts10m = append(s.WindGusts10m, 8)
	}
	raw, err := json.Marshal(map[string]interface{}{"hourly": s})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestFetchRaw(t *testing.T) {
	payload := validPayload(t, 72)
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write(payload)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	raw, err := client.FetchRaw(context.Background(), 48.85, 2.35, 3)
	if err != nil {
		t.Fatalf("FetchRaw: %v", err)
	}

	if gotQuery["latitude"] != "48.85" || gotQuery["longitude"] != "2.35" {
		t.Errorf("coordinates = (%s, %s), want (48.85, 2.35)", gotQuery["latitude"], gotQuery["longitude"])
	}
	if gotQuery["timezone"] != "auto" {
		t.Errorf("timezone = %q, want auto", gotQuery["timezone"])
	}
	if gotQuery["forecast_days"] != "3" {
		t.Errorf("forecast_days = %q, want 3", gotQuery["forecast_days"])
	}
	if fields := strings.Split(gotQuery["hourly"], ","); len(fields) != 15 {
		t.Errorf("hourly has %d fields, want 15: %q", len(fields), gotQuery["hourly"])
	}

	series, err := forecast.ParseSeries(raw)
	if err != nil {
		t.Fatalf("returned payload does not parse: %v", err)
	}
	if len(series.Time) != 72 {
		t.Errorf("len(Time) = %d, want 72", len(series.Time))
	}
}

func TestFetchRawMissingHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"latitude": 48.85}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchRaw(context.Background(), 48.85, 2.35, 3); err == nil {
		t.Fatal("FetchRaw without hourly object should fail")
	}
}

func TestFetchRawNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchRaw(context.Background(), 48.85, 2.35, 3); err == nil {
		t.Fatal("FetchRaw with 503 should fail")
	}
}
