package dto

import "github.com/google/uuid"

// DaySummary is one day of a monthly attendance report.
type DaySummary struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}

// MonthlySummaryResponse is GET /v1/reports/attendance.
type MonthlySummaryResponse struct {
	EmployeeID   uuid.UUID    `json:"employee_id"`
	EmployeeName string       `json:"employee_name"`
	Year         int          `json:"year"`
	Month        int          `json:"month"`
	WorkingDays  int          `json:"working_days"`
	PresentDays  int          `json:"present_days"`
	PartialDays  int          `json:"partial_days"`
	AbsentDays   int          `json:"absent_days"`
	Days         []DaySummary `json:"days"`
}

// PayrollResponse is one employee's month in GET /v1/reports/payroll.
type PayrollResponse struct {
	EmployeeID     uuid.UUID `json:"employee_id"`
	EmployeeName   string    `json:"employee_name,omitempty"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	WorkingDays    int       `json:"working_days"`
	PresentDays    int       `json:"present_days"`
	AbsentDays     int       `json:"absent_days"`
	BaseSalary     float64   `json:"base_salary"`
	TotalDeduction float64   `json:"total_deduction"`
	NetSalary      float64   `json:"net_salary"`
	ComputedAt     string    `json:"computed_at"`
}
