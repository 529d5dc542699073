package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a registered person with exactly one face template.
// The template is replaced wholesale on re-registration, never patched.
type Employee struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Embedding       []float32  `json:"-" db:"embedding"`
	PhotoKey        string     `json:"photo_key,omitempty" db:"photo_key"`
	LocationID      *uuid.UUID `json:"location_id,omitempty" db:"location_id"`
	BaseSalary      float64    `json:"base_salary" db:"base_salary"`
	DeductionPerDay float64    `json:"deduction_per_day" db:"deduction_per_day"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
