package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stevelisz/ANiceClock/internal/cache"
	"github.com/stevelisz/ANiceClock/internal/events"
	"github.com/stevelisz/ANiceClock/internal/gallery"
	"github.com/stevelisz/ANiceClock/internal/location"
	"github.com/stevelisz/ANiceClock/internal/store"
	"github.com/stevelisz/ANiceClock/internal/weather"
)

type staticFetcher struct{}

func (staticFetcher) Fetch(ctx context.Context, lat, lon float64, label string) (weather.Snapshot, error) {
	return weather.Snapshot{
		Current:       weather.CurrentConditions{Temperature: 21, Condition: weather.ConditionClear, Description: "clear sky"},
		Daily:         weather.DeriveForecast(time.Now(), []string{"2025-01-01", "2025-01-02"}, []float64{10, 11}, []float64{2, 3}, []int{0, 3}),
		LocationLabel: label,
		FetchedAt:     time.Now().UTC(),
	}, nil
}

type emptyResolver struct{}

func (emptyResolver) Resolve(ctx context.Context, handle string, size int) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", gallery.ErrAssetUnavailable, handle)
}

func newTestApp() (*fiber.App, *weather.Client, *gallery.Manager) {
	app := fiber.New()

	bus := events.NewBus()
	wc := weather.NewClient(staticFetcher{}, location.NewDenied(), nil, bus)
	gm := gallery.NewManager(emptyResolver{}, cache.NewLRU(10, 0), store.NewMemoryStore(), bus, store.Settings{})

	RegisterRoutes(app, wc, gm, bus)
	return app, wc, gm
}

// TestForecastDaysValidation verifies that the forecast endpoint enforces
// the expected 1-7 range for the `days` query parameter.
func TestForecastDaysValidation(t *testing.T) {
	app, _, _ := newTestApp()

	// Missing days parameter should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Out-of-range days value should also return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast?days=8", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestWeatherLocationEndpoint(t *testing.T) {
	app, _, _ := newTestApp()

	// Unknown preset city.
	req := httptest.NewRequest(http.MethodPut, "/api/v1/weather/location", strings.NewReader(`{"city":"Atlantis"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	// Neither city nor current.
	req = httptest.NewRequest(http.MethodPut, "/api/v1/weather/location", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Valid preset city triggers a refresh.
	req = httptest.NewRequest(http.MethodPut, "/api/v1/weather/location", strings.NewReader(`{"city":"Paris"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}
}

func TestPresetCityCatalog(t *testing.T) {
	app, _, _ := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/cities", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Cities []weather.PresetCity `json:"cities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Cities) != 10 {
		t.Fatalf("len(cities) = %d, want 10", len(body.Cities))
	}
	if body.Cities[0].Name != "New York" {
		t.Fatalf("first city = %q", body.Cities[0].Name)
	}
}

func TestGalleryPhotoLifecycle(t *testing.T) {
	app, _, gm := newTestApp()

	add := func(id string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery/photos",
			strings.NewReader(fmt.Sprintf(`{"assetId":%q}`, id)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add %q: expected 201, got %d", id, resp.StatusCode)
		}
	}

	add("a")
	add("b")
	add("a") // duplicate collapses

	if got := gm.Handles(); len(got) != 2 {
		t.Fatalf("Handles = %v, want 2 entries", got)
	}

	// Missing assetId is rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery/photos", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing assetId, got %d", resp.StatusCode)
	}

	// Out-of-range removal.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/gallery/photos/5", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-range index, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/gallery/photos/0", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 removing index 0, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/gallery/photos", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 clearing gallery, got %d", resp.StatusCode)
	}
	if len(gm.Handles()) != 0 {
		t.Fatalf("Handles = %v after clear", gm.Handles())
	}
}

func TestGallerySlideshowControls(t *testing.T) {
	app, _, gm := newTestApp()

	// Zero interval is rejected.
	req := httptest.NewRequest(http.MethodPut, "/api/v1/gallery/slideshow/interval", strings.NewReader(`{"seconds":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero interval, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/gallery/slideshow/interval", strings.NewReader(`{"seconds":2.5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if gm.Duration() != 2500*time.Millisecond {
		t.Fatalf("Duration = %s, want 2.5s", gm.Duration())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/gallery/slideshow/start", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 starting slideshow, got %d", resp.StatusCode)
	}
	if !gm.Running() {
		t.Fatal("slideshow should be running")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/gallery/slideshow/stop", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 stopping slideshow, got %d", resp.StatusCode)
	}
	if gm.Running() {
		t.Fatal("slideshow should be stopped")
	}
}

func TestGalleryCurrentImageMissing(t *testing.T) {
	app, _, _ := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 with no loaded image, got %d", resp.StatusCode)
	}
}
