package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a named working window, times as "15:04" strings in the
// deployment's local zone.
type Shift struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Assignment binds an employee to a shift at a location. One assignment
// per (employee, location); bulk assignment upserts.
type Assignment struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	ShiftID    uuid.UUID `json:"shift_id" db:"shift_id"`
	LocationID uuid.UUID `json:"location_id" db:"location_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
