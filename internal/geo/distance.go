package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance in kilometers between two
// points given in decimal degrees, rounded to 2 decimal places.
// The second return value is false when any input is not a finite number;
// callers must treat that as "distance unknown", never as zero.
func DistanceKm(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	if !finite(lat1) || !finite(lon1) || !finite(lat2) || !finite(lon2) {
		return 0, false
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	sinLat := math.Sin(deltaLat / 2)
	sinLon := math.Sin(deltaLon / 2)

	a := sinLat*sinLat + math.Cos(lat1Rad)*math.Cos(lat2Rad)*sinLon*sinLon
	c := 2 * math.Asin(math.Sqrt(a))

	return round2(earthRadiusKm * c), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
