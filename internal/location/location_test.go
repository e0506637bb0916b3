package location

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStaticGeolocator(t *testing.T) {
	geo := NewStatic(Coordinate{Lat: 35.6762, Lon: 139.6503})

	if !geo.Authorized() {
		t.Fatal("configured geolocator should report authorization")
	}

	select {
	case fix := <-geo.RequestFix(context.Background()):
		if fix.Err != nil {
			t.Fatalf("fix error: %v", fix.Err)
		}
		if fix.Coordinate.Lat != 35.6762 || fix.Coordinate.Lon != 139.6503 {
			t.Fatalf("fix = %+v", fix.Coordinate)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fix")
	}
}

func TestDeniedGeolocator(t *testing.T) {
	geo := NewDenied()

	if geo.Authorized() {
		t.Fatal("denied geolocator must not report authorization")
	}

	fix := <-geo.RequestFix(context.Background())
	if !errors.Is(fix.Err, ErrNotAuthorized) {
		t.Fatalf("fix err = %v, want ErrNotAuthorized", fix.Err)
	}
}
