package match

import (
	"math"

	"github.com/google/uuid"
)

// DefaultTolerance is the maximum embedding distance still accepted as the
// same person. 0.45 is stricter than the usual 0.6 used by face libraries;
// a stranger near the threshold should be rejected rather than matched.
const DefaultTolerance = 0.45

// Candidate is one registered face template.
type Candidate struct {
	EmployeeID uuid.UUID
	Embedding  []float32
}

// Result is the outcome of matching a query embedding against a candidate
// pool. Matched is false when the pool is empty or no candidate clears the
// tolerance; that is a normal result, not an error.
type Result struct {
	Matched    bool
	EmployeeID uuid.UUID
	Distance   float64
	Confidence float64
}

// Best returns the candidate with the smallest Euclidean distance to query,
// accepted only when that distance is strictly below tolerance. Candidates
// whose embedding length differs from the query are skipped. Ties resolve
// to the first candidate in input order.
func Best(query []float32, candidates []Candidate, tolerance float64) Result {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		if len(c.Embedding) != len(query) {
			continue
		}
		d := euclidean(query, c.Embedding)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestDist >= tolerance {
		return Result{}
	}

	return Result{
		Matched:    true,
		EmployeeID: candidates[bestIdx].EmployeeID,
		Distance:   bestDist,
		Confidence: Confidence(bestDist),
	}
}

// Confidence converts a match distance to a score in [0, 1], rounded to 2
// decimal places.
func Confidence(distance float64) float64 {
	c := 1 - distance
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
