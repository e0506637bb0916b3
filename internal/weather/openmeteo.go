package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// forecastDays is the fixed horizon requested from the API.
const forecastDays = 7

// OpenMeteoClient fetches current conditions and a multi-day forecast from
// the Open-Meteo forecast endpoint. Open-Meteo requires no API key.
//
// A fetch is single-shot: any transport or decode failure is terminal for
// that refresh cycle and surfaced to the caller unchanged.
type OpenMeteoClient struct {
	// BaseURL may be overridden for tests.
	BaseURL string

	client *http.Client
}

func NewOpenMeteoClient(client *http.Client) *OpenMeteoClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenMeteoClient{
		BaseURL: defaultOpenMeteoURL,
		client:  client,
	}
}

// openMeteoResponse mirrors the relevant parts of the API response. The
// daily arrays are parallel and equal length, one entry per day.
type openMeteoResponse struct {
	Current struct {
		Temperature float64  `json:"temperature_2m"`
		Humidity    float64  `json:"relative_humidity_2m"`
		FeelsLike   float64  `json:"apparent_temperature"`
		WindSpeed   float64  `json:"wind_speed_10m"`
		WeatherCode int      `json:"weather_code"`
		UVIndex     *float64 `json:"uv_index"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
	Timezone string `json:"timezone"`
}

// Fetch retrieves a snapshot for the given coordinates. label is the display
// name to attach; when empty, the label is derived from the response
// timezone.
func (c *OpenMeteoClient) Fetch(ctx context.Context, lat, lon float64, label string) (Snapshot, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,wind_speed_10m,weather_code,uv_index")
	values.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
	values.Set("timezone", "auto")
	values.Set("forecast_days", fmt.Sprintf("%d", forecastDays))

	u := fmt.Sprintf("%s?%s", c.BaseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Snapshot{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Snapshot{}, fmt.Errorf("network error: unexpected status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode weather data: %w", err)
	}

	return buildSnapshot(payload, label, time.Now()), nil
}

// buildSnapshot converts a decoded API response into the internal model.
func buildSnapshot(payload openMeteoResponse, label string, now time.Time) Snapshot {
	uv := 0.0
	if payload.Current.UVIndex != nil {
		uv = *payload.Current.UVIndex
	}

	current := CurrentConditions{
		Temperature: payload.Current.Temperature,
		FeelsLike:   payload.Current.FeelsLike,
		Humidity:    payload.Current.Humidity,
		WindSpeed:   payload.Current.WindSpeed,
		UVIndex:     uv,
		Code:        payload.Current.WeatherCode,
		Condition:   CodeToCondition(payload.Current.WeatherCode),
		Description: CodeToDescription(payload.Current.WeatherCode),
	}

	if label == "" {
		label = labelFromTimezone(payload.Timezone)
	}

	return Snapshot{
		Current:       current,
		Daily:         DeriveForecast(now, payload.Daily.Time, payload.Daily.TempMax, payload.Daily.TempMin, payload.Daily.WeatherCode),
		LocationLabel: label,
		Timezone:      payload.Timezone,
		FetchedAt:     now.UTC(),
	}
}
