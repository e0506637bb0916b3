package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleResponse = `{"current":{"temperature_2m":22.5,"apparent_temperature":24.0,"relative_humidity_2m":65.0,"weather_code":3},"daily":{"time":["2025-01-01"],"temperature_2m_max":[10.0],"temperature_2m_min":[2.0],"weather_code":[3]},"timezone":"America/Los_Angeles"}`

// TestOpenMeteoFetch decodes a fixed upstream response end to end.
func TestOpenMeteoFetch(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"current":       r.URL.Query().Get("current"),
			"daily":         r.URL.Query().Get("daily"),
			"timezone":      r.URL.Query().Get("timezone"),
			"forecast_days": r.URL.Query().Get("forecast_days"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client())
	client.BaseURL = srv.URL

	snap, err := client.Fetch(context.Background(), 34.0522, -118.2437, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["current"] != "temperature_2m,relative_humidity_2m,apparent_temperature,wind_speed_10m,weather_code,uv_index" {
		t.Errorf("unexpected current fields: %q", gotQuery["current"])
	}
	if gotQuery["daily"] != "temperature_2m_max,temperature_2m_min,weather_code" {
		t.Errorf("unexpected daily fields: %q", gotQuery["daily"])
	}
	if gotQuery["timezone"] != "auto" || gotQuery["forecast_days"] != "7" {
		t.Errorf("unexpected timezone/forecast_days: %q / %q", gotQuery["timezone"], gotQuery["forecast_days"])
	}

	if snap.Current.Temperature != 22.5 {
		t.Errorf("temperature = %v, want 22.5", snap.Current.Temperature)
	}
	if snap.Current.FeelsLike != 24.0 {
		t.Errorf("feels like = %v, want 24.0", snap.Current.FeelsLike)
	}
	if snap.Current.Condition != ConditionClouds {
		t.Errorf("condition = %q, want Clouds", snap.Current.Condition)
	}
	if snap.Current.Description != "overcast" {
		t.Errorf("description = %q, want overcast", snap.Current.Description)
	}

	if len(snap.Daily) != 1 {
		t.Fatalf("len(daily) = %d, want 1", len(snap.Daily))
	}
	day := snap.Daily[0]
	if !day.Date.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("forecast date = %v, want 2025-01-01", day.Date)
	}
	if day.MaxTemp != 10.0 || day.MinTemp != 2.0 {
		t.Errorf("forecast temps = %v/%v, want 10.0/2.0", day.MaxTemp, day.MinTemp)
	}

	// No explicit label: derived from the response timezone.
	if snap.LocationLabel != "Los_Angeles" {
		t.Errorf("location label = %q, want Los_Angeles", snap.LocationLabel)
	}
	if snap.Timezone != "America/Los_Angeles" {
		t.Errorf("timezone = %q", snap.Timezone)
	}
}

func TestOpenMeteoFetchKeepsLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client())
	client.BaseURL = srv.URL

	snap, err := client.Fetch(context.Background(), 48.8566, 2.3522, "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.LocationLabel != "Paris" {
		t.Errorf("location label = %q, want Paris", snap.LocationLabel)
	}
}

func TestOpenMeteoFetchDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": "not-an-object"`))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client())
	client.BaseURL = srv.URL

	if _, err := client.Fetch(context.Background(), 0, 0, ""); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}

func TestOpenMeteoFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client())
	client.BaseURL = srv.URL

	if _, err := client.Fetch(context.Background(), 0, 0, ""); err == nil {
		t.Fatal("expected error for status 500, got nil")
	}
}
