package geo

import (
	"testing"

	"github.com/google/uuid"
)

func ptr(v float64) *float64 { return &v }

func TestResolveNearestWins(t *testing.T) {
	const lat, lon = 40.7128, -74.0060

	far := Anchor{ID: uuid.New(), Name: "far", Latitude: ptr(lat + 0.0004), Longitude: ptr(lon)}
	near := Anchor{ID: uuid.New(), Name: "near", Latitude: ptr(lat + 0.0001), Longitude: ptr(lon)}

	got := Resolve(lat, lon, []Anchor{far, near}, 0.05)
	if got == nil {
		t.Fatal("expected a resolution")
	}
	if got.Anchor.ID != near.ID {
		t.Errorf("resolved %q, want %q", got.Anchor.Name, near.Name)
	}
}

func TestResolveBoundaryInclusive(t *testing.T) {
	// 0.00045 degrees of latitude at the equator is ~50m, which rounds to
	// exactly the 0.05 km default radius.
	a := Anchor{ID: uuid.New(), Name: "edge", Latitude: ptr(0.00045), Longitude: ptr(0.0)}

	got := Resolve(0, 0, []Anchor{a}, 0.05)
	if got == nil {
		t.Fatal("anchor exactly at the radius must match")
	}
	if got.DistanceKm != 0.05 {
		t.Errorf("distance = %v, want 0.05", got.DistanceKm)
	}
}

func TestResolveOutsideRadius(t *testing.T) {
	// ~100m away, well past the 50m fence.
	a := Anchor{ID: uuid.New(), Name: "away", Latitude: ptr(0.0009), Longitude: ptr(0.0)}

	if got := Resolve(0, 0, []Anchor{a}, 0.05); got != nil {
		t.Errorf("expected no resolution, got %q at %v km", got.Anchor.Name, got.DistanceKm)
	}
}

func TestResolveSkipsAnchorsWithoutCoordinates(t *testing.T) {
	noCoords := Anchor{ID: uuid.New(), Name: "tbd"}
	here := Anchor{ID: uuid.New(), Name: "here", Latitude: ptr(0.0), Longitude: ptr(0.0)}

	got := Resolve(0, 0, []Anchor{noCoords, here}, 0.05)
	if got == nil {
		t.Fatal("expected a resolution")
	}
	if got.Anchor.ID != here.ID {
		t.Errorf("resolved %q, want %q", got.Anchor.Name, here.Name)
	}
}

func TestResolveTieFirstListedWins(t *testing.T) {
	first := Anchor{ID: uuid.New(), Name: "first", Latitude: ptr(0.0001), Longitude: ptr(0.0)}
	second := Anchor{ID: uuid.New(), Name: "second", Latitude: ptr(-0.0001), Longitude: ptr(0.0)}

	got := Resolve(0, 0, []Anchor{first, second}, 0.05)
	if got == nil {
		t.Fatal("expected a resolution")
	}
	if got.Anchor.ID != first.ID {
		t.Errorf("tie resolved to %q, want first-listed %q", got.Anchor.Name, first.Name)
	}
}

func TestResolveEmptyAnchors(t *testing.T) {
	if got := Resolve(0, 0, nil, 0.05); got != nil {
		t.Errorf("expected nil for empty anchor set, got %v", got)
	}
}
