package location

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
)

// GoogleGeocoder reverse-geocodes coordinates through the Google Geocoding
// API. It requires an API key; construction fails without one so callers
// can fall back to a generic label instead.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the underlying geocoder package with the
// given API key.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("geocoder api key is not configured")
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}, nil
}

// Locality returns the city for the coordinate, falling back to the state
// when the placemark carries no city.
func (g *GoogleGeocoder) Locality(ctx context.Context, coord Coordinate) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  coord.Lat,
		Longitude: coord.Lon,
	})
	if err != nil {
		return "", err
	}
	if len(addresses) == 0 {
		return "", fmt.Errorf("no placemark found for %f,%f", coord.Lat, coord.Lon)
	}

	addr := addresses[0]
	if addr.City != "" {
		return addr.City, nil
	}
	if addr.State != "" {
		return addr.State, nil
	}
	return "", fmt.Errorf("placemark has no locality for %f,%f", coord.Lat, coord.Lon)
}
