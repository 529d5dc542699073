package geo

import "github.com/google/uuid"

// DefaultRadiusKm is the geofence radius applied when none is configured:
// 50 meters, i.e. the scanner must be physically at the site.
const DefaultRadiusKm = 0.05

// Anchor is a named point a scan can be fenced to. Latitude/Longitude are
// nil for anchors that were created without coordinates; those never match.
type Anchor struct {
	ID        uuid.UUID
	Name      string
	Latitude  *float64
	Longitude *float64
}

// Resolved is a successful geofence resolution.
type Resolved struct {
	Anchor     Anchor
	DistanceKm float64
}

// Resolve returns the anchor nearest to (lat, lon) whose distance is within
// radiusKm (inclusive), or nil when no anchor qualifies. Anchors without
// coordinates are skipped. When two anchors are exactly equidistant the one
// listed first wins, so results are stable across runs.
func Resolve(lat, lon float64, anchors []Anchor, radiusKm float64) *Resolved {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if !finite(lat) || !finite(lon) {
		return nil
	}

	var best *Resolved
	for _, a := range anchors {
		if a.Latitude == nil || a.Longitude == nil {
			continue
		}
		dist, ok := DistanceKm(lat, lon, *a.Latitude, *a.Longitude)
		if !ok || dist > radiusKm {
			continue
		}
		if best == nil || dist < best.DistanceKm {
			best = &Resolved{Anchor: a, DistanceKm: dist}
		}
	}
	return best
}
