package models

import (
	"time"

	"github.com/google/uuid"
)

// PayrollRecord is the per-employee aggregation for one calendar month.
// Recomputed by the payroll worker whenever an attendance event lands.
type PayrollRecord struct {
	ID             uuid.UUID `json:"id" db:"id"`
	EmployeeID     uuid.UUID `json:"employee_id" db:"employee_id"`
	Year           int       `json:"year" db:"year"`
	Month          int       `json:"month" db:"month"`
	WorkingDays    int       `json:"working_days" db:"working_days"`
	PresentDays    int       `json:"present_days" db:"present_days"`
	AbsentDays     int       `json:"absent_days" db:"absent_days"`
	BaseSalary     float64   `json:"base_salary" db:"base_salary"`
	TotalDeduction float64   `json:"total_deduction" db:"total_deduction"`
	NetSalary      float64   `json:"net_salary" db:"net_salary"`
	ComputedAt     time.Time `json:"computed_at" db:"computed_at"`
}
