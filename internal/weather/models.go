package weather

import (
	"strings"
	"time"
)

// Condition is a coarse weather condition category derived from an
// Open-Meteo weather code.
type Condition string

const (
	ConditionClear   Condition = "Clear"
	ConditionClouds  Condition = "Clouds"
	ConditionFog     Condition = "Fog"
	ConditionDrizzle Condition = "Drizzle"
	ConditionRain    Condition = "Rain"
	ConditionSnow    Condition = "Snow"
	ConditionStorm   Condition = "Thunderstorm"
)

// CurrentConditions holds the current observation fields. Immutable once
// fetched; a new fetch replaces the whole snapshot.
type CurrentConditions struct {
	Temperature float64   `json:"temperatureC"`
	FeelsLike   float64   `json:"feelsLikeC"`
	Humidity    float64   `json:"humidityPercent"`
	WindSpeed   float64   `json:"windSpeed"`
	UVIndex     float64   `json:"uvIndex"`
	Code        int       `json:"weatherCode"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
}

// ForecastDay is one entry of the multi-day forecast.
type ForecastDay struct {
	Date      time.Time `json:"date"`
	MaxTemp   float64   `json:"maxTempC"`
	MinTemp   float64   `json:"minTempC"`
	Code      int       `json:"weatherCode"`
	Condition Condition `json:"condition"`
}

// Snapshot is the complete current+forecast payload for one location at one
// point in time. It is replaced wholesale on every successful fetch and
// never patched.
type Snapshot struct {
	Current       CurrentConditions `json:"current"`
	Daily         []ForecastDay     `json:"daily"`
	LocationLabel string            `json:"locationLabel"`
	Timezone      string            `json:"timezone"`
	FetchedAt     time.Time         `json:"fetchedAt"`
}

// PresetCity is one of a fixed catalog of named locations with hardcoded
// coordinates, offered as an alternative to device geolocation.
type PresetCity struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// DisplayName returns "City, CC" for UI consumption.
func (c PresetCity) DisplayName() string {
	return c.Name + ", " + c.Country
}

// PresetCities is the fixed selectable catalog.
var PresetCities = []PresetCity{
	{Name: "New York", Lat: 40.7128, Lon: -74.0060, Country: "US"},
	{Name: "London", Lat: 51.5074, Lon: -0.1278, Country: "GB"},
	{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503, Country: "JP"},
	{Name: "Paris", Lat: 48.8566, Lon: 2.3522, Country: "FR"},
	{Name: "Sydney", Lat: -33.8688, Lon: 151.2093, Country: "AU"},
	{Name: "Los Angeles", Lat: 34.0522, Lon: -118.2437, Country: "US"},
	{Name: "Berlin", Lat: 52.5200, Lon: 13.4050, Country: "DE"},
	{Name: "Singapore", Lat: 1.3521, Lon: 103.8198, Country: "SG"},
	{Name: "Toronto", Lat: 43.6532, Lon: -79.3832, Country: "CA"},
	{Name: "Dubai", Lat: 25.2048, Lon: 55.2708, Country: "AE"},
}

// FindPresetCity looks a city up by name (case-insensitive).
func FindPresetCity(name string) (PresetCity, bool) {
	for _, c := range PresetCities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return PresetCity{}, false
}

// LocationSelection identifies what the next refresh is for: exactly one of
// a preset city or the current device position.
type LocationSelection struct {
	City          *PresetCity
	CurrentDevice bool
}

// SelectCity returns a selection bound to a preset city.
func SelectCity(c PresetCity) LocationSelection {
	city := c
	return LocationSelection{City: &city}
}

// SelectCurrentDevice returns a selection that resolves coordinates at fetch
// time via the geolocation collaborator.
func SelectCurrentDevice() LocationSelection {
	return LocationSelection{CurrentDevice: true}
}

// labelFromTimezone derives a display label from an IANA timezone name,
// e.g. "America/Los_Angeles" -> "Los_Angeles".
func labelFromTimezone(tz string) string {
	if tz == "" {
		return "Unknown"
	}
	parts := strings.Split(tz, "/")
	return parts[len(parts)-1]
}
