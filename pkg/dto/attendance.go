package dto

import "github.com/google/uuid"

// ScanResponse is the success body for POST /v1/attendance/scan, matching
// the shape mobile clients already consume.
type ScanResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Employee   string  `json:"employee"`
	Kind       string  `json:"kind,omitempty"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
	Site       string  `json:"site,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
	PhotoURL   string  `json:"photo,omitempty"`
}

// RegisterResponse is the success body for POST /v1/employees/register.
type RegisterResponse struct {
	Status     string    `json:"status"`
	EmployeeID uuid.UUID `json:"employee_id"`
	Name       string    `json:"name"`
}

// EventResponse is one attendance log entry.
type EventResponse struct {
	ID           uuid.UUID  `json:"id"`
	EmployeeID   uuid.UUID  `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Kind         string     `json:"kind"`
	Timestamp    string     `json:"timestamp"`
	SiteID       *uuid.UUID `json:"site_id,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	DistanceKm   *float64   `json:"distance_km,omitempty"`
	Confidence   float64    `json:"confidence"`
	SnapshotURL  string     `json:"snapshot_url,omitempty"`
}

// WSEvent wraps a scan broadcast over the websocket feed.
type WSEvent struct {
	Type       string      `json:"type"`
	LocationID *uuid.UUID  `json:"location_id,omitempty"`
	Data       interface{} `json:"data"`
}
