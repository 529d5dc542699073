package attendance

import (
	"testing"
	"time"

	"github.com/your-org/attend/internal/models"
)

func event(kind models.EventKind, ts time.Time) models.AttendanceEvent {
	return models.AttendanceEvent{Kind: kind, Timestamp: ts}
}

func TestDecide(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		events []models.AttendanceEvent
		want   Action
	}{
		{"no events", nil, ActionCheckIn},
		{"checked in", []models.AttendanceEvent{
			event(models.EventCheckIn, now),
		}, ActionCheckOut},
		{"complete", []models.AttendanceEvent{
			event(models.EventCheckIn, now),
			event(models.EventCheckOut, now.Add(8*time.Hour)),
		}, ActionReject},
		{"order does not matter", []models.AttendanceEvent{
			event(models.EventCheckOut, now.Add(8*time.Hour)),
			event(models.EventCheckIn, now),
		}, ActionReject},
		{"duplicate check-ins stay on check-out", []models.AttendanceEvent{
			event(models.EventCheckIn, now),
			event(models.EventCheckIn, now.Add(time.Minute)),
		}, ActionCheckOut},
		{"orphan check-out still wants check-in", []models.AttendanceEvent{
			event(models.EventCheckOut, now),
		}, ActionCheckIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.events); got != tt.want {
				t.Errorf("Decide = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestActionKind(t *testing.T) {
	if ActionCheckIn.Kind() != models.EventCheckIn {
		t.Error("ActionCheckIn must record a check_in")
	}
	if ActionCheckOut.Kind() != models.EventCheckOut {
		t.Error("ActionCheckOut must record a check_out")
	}
}

func TestSameLocalDay(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}

	// 23:59 and 00:01 local are one day apart even though only two
	// minutes separate them.
	before := time.Date(2024, 3, 10, 23, 59, 0, 0, kolkata)
	after := time.Date(2024, 3, 11, 0, 1, 0, 0, kolkata)
	if SameLocalDay(before, after, kolkata) {
		t.Error("instants across local midnight must be different days")
	}

	// The same two instants expressed in UTC still bucket by Kolkata
	// local time.
	if !SameLocalDay(before.UTC(), before, kolkata) {
		t.Error("zone conversion must not change the local day")
	}

	// 20:00 UTC on the 10th is 01:30 on the 11th in Kolkata.
	evening := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	sameUTCDay := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	if SameLocalDay(evening, sameUTCDay, kolkata) {
		t.Error("same UTC day can still be different local days")
	}
}

func TestFilterDay(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}

	ref := time.Date(2024, 3, 11, 9, 0, 0, 0, kolkata)
	events := []models.AttendanceEvent{
		event(models.EventCheckIn, time.Date(2024, 3, 10, 23, 59, 0, 0, kolkata)),
		event(models.EventCheckIn, time.Date(2024, 3, 11, 0, 1, 0, 0, kolkata)),
		event(models.EventCheckOut, time.Date(2024, 3, 11, 18, 0, 0, 0, kolkata)),
	}

	got := FilterDay(events, ref, kolkata)
	if len(got) != 2 {
		t.Fatalf("filtered %d events, want 2", len(got))
	}
	for _, ev := range got {
		if !SameLocalDay(ev.Timestamp, ref, kolkata) {
			t.Errorf("event at %v leaked into day of %v", ev.Timestamp, ref)
		}
	}
}
