package match

import (
	"testing"

	"github.com/google/uuid"
)

func embedding(dim int, fill float32) []float32 {
	e := make([]float32, dim)
	for i := range e {
		e[i] = fill
	}
	return e
}

func TestBestExactMatch(t *testing.T) {
	id := uuid.New()
	query := embedding(512, 0.1)

	res := Best(query, []Candidate{{EmployeeID: id, Embedding: embedding(512, 0.1)}}, 0.45)
	if !res.Matched {
		t.Fatal("expected a match")
	}
	if res.EmployeeID != id {
		t.Errorf("matched %s, want %s", res.EmployeeID, id)
	}
	if res.Distance != 0 {
		t.Errorf("distance = %v, want 0", res.Distance)
	}
	if res.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", res.Confidence)
	}
}

func TestBestEmptyPool(t *testing.T) {
	res := Best(embedding(512, 0.1), nil, 0.45)
	if res.Matched {
		t.Error("expected no match against an empty pool")
	}
}

func TestBestToleranceIsStrict(t *testing.T) {
	// A single differing component of 0.45 puts the distance exactly at
	// the tolerance; strictly-below means rejection.
	query := embedding(512, 0)
	cand := embedding(512, 0)
	cand[0] = 0.45

	res := Best(query, []Candidate{{EmployeeID: uuid.New(), Embedding: cand}}, 0.45)
	if res.Matched {
		t.Errorf("distance %v equals tolerance and must be rejected", res.Distance)
	}

	cand[0] = 0.449
	res = Best(query, []Candidate{{EmployeeID: uuid.New(), Embedding: cand}}, 0.45)
	if !res.Matched {
		t.Error("distance just below tolerance must match")
	}
}

func TestBestPicksNearest(t *testing.T) {
	query := embedding(512, 0)

	nearID := uuid.New()
	near := embedding(512, 0)
	near[0] = 0.1
	far := embedding(512, 0)
	far[0] = 0.3

	res := Best(query, []Candidate{
		{EmployeeID: uuid.New(), Embedding: far},
		{EmployeeID: nearID, Embedding: near},
	}, 0.45)
	if !res.Matched || res.EmployeeID != nearID {
		t.Errorf("matched %v, want nearest candidate %v", res.EmployeeID, nearID)
	}
}

func TestBestTieFirstListedWins(t *testing.T) {
	query := embedding(512, 0)

	firstID := uuid.New()
	a := embedding(512, 0)
	a[0] = 0.2
	b := embedding(512, 0)
	b[1] = 0.2

	res := Best(query, []Candidate{
		{EmployeeID: firstID, Embedding: a},
		{EmployeeID: uuid.New(), Embedding: b},
	}, 0.45)
	if !res.Matched || res.EmployeeID != firstID {
		t.Errorf("tie resolved to %v, want first-listed %v", res.EmployeeID, firstID)
	}
}

func TestBestSkipsDimensionMismatch(t *testing.T) {
	id := uuid.New()
	query := embedding(512, 0)

	res := Best(query, []Candidate{
		{EmployeeID: uuid.New(), Embedding: embedding(128, 0)}, // stale template
		{EmployeeID: id, Embedding: embedding(512, 0)},
	}, 0.45)
	if !res.Matched || res.EmployeeID != id {
		t.Errorf("matched %v, want %v", res.EmployeeID, id)
	}

	res = Best(query, []Candidate{{EmployeeID: uuid.New(), Embedding: embedding(128, 0)}}, 0.45)
	if res.Matched {
		t.Error("pool of mismatched dimensions must not match")
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1.0},
		{0.25, 0.75},
		{0.449, 0.55},
		{1.0, 0.0},
		{1.7, 0.0},  // clamped
		{-0.2, 1.0}, // clamped
	}

	for _, tt := range tests {
		if got := Confidence(tt.distance); got != tt.want {
			t.Errorf("Confidence(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}
