package weather

import (
	"context"
	"log"
	"sync"

	"github.com/stevelisz/ANiceClock/internal/events"
	"github.com/stevelisz/ANiceClock/internal/location"
)

// currentLocationLabel is the display fallback when reverse geocoding is
// unavailable or fails.
const currentLocationLabel = "Current Location"

// Fetcher abstracts the upstream weather API call.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64, label string) (Snapshot, error)
}

// Client maintains the single authoritative, most-recent weather snapshot
// for the currently selected location, plus the request lifecycle state.
//
// Refreshes run asynchronously and finish by overwriting state under the
// client's lock. When refreshes overlap, the last response to arrive wins
// regardless of which request was issued last; there is no generation token
// and no cancellation of the earlier fetch.
type Client struct {
	fetcher Fetcher
	geo     location.Geolocator
	rgeo    location.ReverseGeocoder // optional
	bus     *events.Bus

	mu        sync.RWMutex
	selection LocationSelection
	snapshot  *Snapshot
	loading   bool
	errMsg    string
}

// NewClient creates a Client. rgeo may be nil, in which case current-device
// fetches use the generic "Current Location" label.
func NewClient(fetcher Fetcher, geo location.Geolocator, rgeo location.ReverseGeocoder, bus *events.Bus) *Client {
	return &Client{
		fetcher:   fetcher,
		geo:       geo,
		rgeo:      rgeo,
		bus:       bus,
		selection: SelectCurrentDevice(),
	}
}

// SelectLocation sets the active location selection and unconditionally
// triggers a refresh. Every call supersedes the prior selection.
func (c *Client) SelectLocation(sel LocationSelection) {
	c.mu.Lock()
	c.selection = sel
	c.mu.Unlock()

	c.Refresh()
}

// Refresh triggers a fetch for the active selection. The call returns
// immediately; completion is observable through Snapshot/Err/Loading and
// the event bus. Failures are terminal for the cycle: the snapshot is
// cleared, the error set, and recovery requires another Refresh or
// SelectLocation.
func (c *Client) Refresh() {
	c.mu.RLock()
	sel := c.selection
	c.mu.RUnlock()

	if sel.City != nil {
		city := *sel.City
		c.setLoading()
		go c.fetchFor(city.Lat, city.Lon, city.Name)
		return
	}

	// Current device: fail fast when not authorized, no fallback guess.
	if !c.geo.Authorized() {
		log.Printf("weather: location permission not granted")
		c.fail("Location permission required for weather")
		return
	}

	c.setLoading()
	go func() {
		fix := <-c.geo.RequestFix(context.Background())
		if fix.Err != nil {
			log.Printf("weather: location fix failed: %v", fix.Err)
			c.fail("Location access failed")
			return
		}

		label := currentLocationLabel
		if c.rgeo != nil {
			name, err := c.rgeo.Locality(context.Background(), fix.Coordinate)
			if err != nil {
				// The fetch still proceeds with raw coordinates.
				log.Printf("weather: reverse geocoding failed: %v", err)
			} else {
				label = name
			}
		}

		c.fetchFor(fix.Coordinate.Lat, fix.Coordinate.Lon, label)
	}()
}

// Snapshot returns the latest snapshot, or false when none is held.
func (c *Client) Snapshot() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return Snapshot{}, false
	}
	return *c.snapshot, true
}

// Err returns the latest error message, empty when the last cycle succeeded.
func (c *Client) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// Loading reports whether a refresh cycle is in flight.
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Selection returns the active location selection.
func (c *Client) Selection() LocationSelection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

func (c *Client) fetchFor(lat, lon float64, label string) {
	snap, err := c.fetcher.Fetch(context.Background(), lat, lon, label)
	if err != nil {
		log.Printf("weather: fetch failed for %s: %v", label, err)
		c.fail(err.Error())
		return
	}

	c.mu.Lock()
	c.snapshot = &snap
	c.errMsg = ""
	c.loading = false
	c.mu.Unlock()

	c.publish(events.KindWeatherUpdated, snap.LocationLabel)
}

func (c *Client) setLoading() {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()
}

// fail clears the snapshot and records the error for the cycle.
func (c *Client) fail(msg string) {
	c.mu.Lock()
	c.snapshot = nil
	c.errMsg = msg
	c.loading = false
	c.mu.Unlock()

	c.publish(events.KindWeatherError, msg)
}

func (c *Client) publish(kind events.Kind, detail string) {
	if c.bus != nil {
		c.bus.Publish(kind, detail)
	}
}
