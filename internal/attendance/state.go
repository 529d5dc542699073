package attendance

import (
	"time"

	"github.com/your-org/attend/internal/models"
)

// Action is the state-machine decision for a new scan.
type Action int

const (
	// ActionCheckIn means no check-in exists yet for the day.
	ActionCheckIn Action = iota
	// ActionCheckOut means a check-in exists but no check-out does.
	ActionCheckOut
	// ActionReject means both events already exist; the day is complete.
	ActionReject
)

func (a Action) String() string {
	switch a {
	case ActionCheckIn:
		return "check_in"
	case ActionCheckOut:
		return "check_out"
	default:
		return "reject"
	}
}

// Kind maps an action to the event kind it records.
func (a Action) Kind() models.EventKind {
	if a == ActionCheckOut {
		return models.EventCheckOut
	}
	return models.EventCheckIn
}

// Decide derives the next action from the events already recorded for one
// employee on one local day. It checks for the presence of each kind
// rather than counting, so re-delivery of the same scan cannot advance the
// state twice and event order does not matter.
func Decide(eventsToday []models.AttendanceEvent) Action {
	var hasIn, hasOut bool
	for _, ev := range eventsToday {
		switch ev.Kind {
		case models.EventCheckIn:
			hasIn = true
		case models.EventCheckOut:
			hasOut = true
		}
	}
	switch {
	case !hasIn:
		return ActionCheckIn
	case !hasOut:
		return ActionCheckOut
	default:
		return ActionReject
	}
}

// SameLocalDay reports whether two instants fall on the same calendar day
// in zone. Each timestamp is converted individually, so an event written
// just before local midnight belongs to its own day, not the query's.
func SameLocalDay(a, b time.Time, zone *time.Location) bool {
	ay, am, ad := a.In(zone).Date()
	by, bm, bd := b.In(zone).Date()
	return ay == by && am == bm && ad == bd
}

// FilterDay returns the subset of events whose own timestamp falls on the
// same local day as ref.
func FilterDay(events []models.AttendanceEvent, ref time.Time, zone *time.Location) []models.AttendanceEvent {
	var out []models.AttendanceEvent
	for _, ev := range events {
		if SameLocalDay(ev.Timestamp, ref, zone) {
			out = append(out, ev)
		}
	}
	return out
}
