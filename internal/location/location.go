package location

import (
	"context"
	"errors"
)

// ErrNotAuthorized is returned when a position fix is requested without the
// device location being available.
var ErrNotAuthorized = errors.New("location permission not granted")

// Coordinate is a geographic position.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Fix is the result of a single position request.
type Fix struct {
	Coordinate Coordinate
	Err        error
}

// Geolocator yields the current device position. RequestFix delivers exactly
// one Fix on the returned channel; callers should honor ctx to avoid waiting
// forever on a stalled provider.
type Geolocator interface {
	Authorized() bool
	RequestFix(ctx context.Context) <-chan Fix
}

// ReverseGeocoder maps a coordinate to a locality display name.
type ReverseGeocoder interface {
	Locality(ctx context.Context, coord Coordinate) (string, error)
}

// Static is a Geolocator with a fixed, configured coordinate. It stands in
// for the device positioning hardware: authorization means a coordinate was
// configured at all.
type Static struct {
	coord      Coordinate
	authorized bool
}

// NewStatic returns a Static that reports the given coordinate.
func NewStatic(coord Coordinate) *Static {
	return &Static{coord: coord, authorized: true}
}

// NewDenied returns a Static that reports no authorization.
func NewDenied() *Static {
	return &Static{}
}

func (s *Static) Authorized() bool {
	return s.authorized
}

func (s *Static) RequestFix(ctx context.Context) <-chan Fix {
	ch := make(chan Fix, 1)
	if !s.authorized {
		ch <- Fix{Err: ErrNotAuthorized}
		return ch
	}
	ch <- Fix{Coordinate: s.coord}
	return ch
}
