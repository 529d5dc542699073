package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	// Near New York; at this latitude 0.00045 degrees of latitude is
	// roughly 50 meters.
	const lat, lon = 40.7128, -74.0060

	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
	}{
		{"same point", lat, lon, lat, lon, 0},
		{"about 10 meters north", lat, lon, lat + 0.00009, lon, 0.01},
		{"about 50 meters north", lat, lon, lat + 0.00045, lon, 0.05},
		{"about 100 meters north", lat, lon, lat + 0.0009, lon, 0.1},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 343.56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if !ok {
				t.Fatal("expected a valid distance")
			}
			if math.Abs(got-tt.expected) > 0.011 {
				t.Errorf("DistanceKm = %v, want about %v", got, tt.expected)
			}
		})
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a, okA := DistanceKm(40.7128, -74.0060, 51.5074, -0.1278)
	b, okB := DistanceKm(51.5074, -0.1278, 40.7128, -74.0060)
	if !okA || !okB {
		t.Fatal("expected valid distances")
	}
	if a != b {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestDistanceKmRounded(t *testing.T) {
	got, ok := DistanceKm(40.7128, -74.0060, 40.7138, -74.0050)
	if !ok {
		t.Fatal("expected a valid distance")
	}
	if got != math.Round(got*100)/100 {
		t.Errorf("distance %v not rounded to 2 decimal places", got)
	}
}

func TestDistanceKmNonFinite(t *testing.T) {
	tests := []struct {
		name string
		lat1 float64
	}{
		{"nan", math.NaN()},
		{"positive inf", math.Inf(1)},
		{"negative inf", math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DistanceKm(tt.lat1, 0, 10, 10)
			if ok {
				t.Error("expected ok=false for non-finite input")
			}
			if got != 0 {
				t.Errorf("expected 0 sentinel, got %v", got)
			}
		})
	}
}
