package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateEvent is returned by the store when an insert collides with
// the unique (employee, local day, kind) index. The engine treats it as a
// concurrent re-scan, not a failure.
var ErrDuplicateEvent = errors.New("attendance event already recorded")

// EventKind is the type of an attendance event.
type EventKind string

const (
	EventCheckIn  EventKind = "check_in"
	EventCheckOut EventKind = "check_out"
)

// AttendanceEvent is one immutable check-in or check-out record.
// Timestamp is stored as an instant; day bucketing happens in the
// configured local zone, applied to each event's own timestamp.
type AttendanceEvent struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	EmployeeID  uuid.UUID  `json:"employee_id" db:"employee_id"`
	Kind        EventKind  `json:"kind" db:"kind"`
	Timestamp   time.Time  `json:"timestamp" db:"timestamp"`
	SiteID      *uuid.UUID `json:"site_id,omitempty" db:"site_id"`
	Latitude    *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64   `json:"longitude,omitempty" db:"longitude"`
	DistanceKm  *float64   `json:"distance_km,omitempty" db:"distance_km"`
	Confidence  float64    `json:"confidence" db:"confidence"`
	SnapshotKey string     `json:"snapshot_key,omitempty" db:"snapshot_key"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ScanEvent is the message published to NATS after an event is recorded.
// The API broadcasts it over websocket; the payroll worker folds it into
// monthly records.
type ScanEvent struct {
	EventID      uuid.UUID  `json:"event_id"`
	EmployeeID   uuid.UUID  `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	Kind         EventKind  `json:"kind"`
	Timestamp    time.Time  `json:"timestamp"`
	Confidence   float64    `json:"confidence"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	SiteID       *uuid.UUID `json:"site_id,omitempty"`
	SiteName     string     `json:"site_name,omitempty"`
	DistanceKm   *float64   `json:"distance_km,omitempty"`
	SnapshotKey  string     `json:"snapshot_key,omitempty"`
}
