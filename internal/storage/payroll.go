package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/your-org/attend/internal/models"
)

// DayAttendance is one local calendar day of an employee's month.
type DayAttendance struct {
	Day      time.Time
	CheckIn  *time.Time
	CheckOut *time.Time
}

// MonthAttendance returns one row per local day of the month that has at
// least one event, with the first check-in and last check-out instants.
func (s *PostgresStore) MonthAttendance(ctx context.Context, employeeID uuid.UUID, year, month int) ([]DayAttendance, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT (timestamp AT TIME ZONE $4)::date AS day,
		        MIN(timestamp) FILTER (WHERE kind = 'check_in')  AS first_in,
		        MAX(timestamp) FILTER (WHERE kind = 'check_out') AS last_out
		 FROM attendance_events
		 WHERE employee_id = $1
		   AND EXTRACT(YEAR  FROM timestamp AT TIME ZONE $4) = $2
		   AND EXTRACT(MONTH FROM timestamp AT TIME ZONE $4) = $3
		 GROUP BY day
		 ORDER BY day`,
		employeeID, year, month, s.zone)
	if err != nil {
		return nil, fmt.Errorf("month attendance: %w", err)
	}
	defer rows.Close()

	var days []DayAttendance
	for rows.Next() {
		var d DayAttendance
		if err := rows.Scan(&d.Day, &d.CheckIn, &d.CheckOut); err != nil {
			return nil, fmt.Errorf("scan day attendance: %w", err)
		}
		days = append(days, d)
	}
	return days, nil
}

// PresentDays counts the distinct local days in a month on which the
// employee checked in.
func (s *PostgresStore) PresentDays(ctx context.Context, employeeID uuid.UUID, year, month int) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT (timestamp AT TIME ZONE $4)::date)
		 FROM attendance_events
		 WHERE employee_id = $1
		   AND kind = 'check_in'
		   AND EXTRACT(YEAR  FROM timestamp AT TIME ZONE $4) = $2
		   AND EXTRACT(MONTH FROM timestamp AT TIME ZONE $4) = $3`,
		employeeID, year, month, s.zone).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("present days: %w", err)
	}
	return count, nil
}

// UpsertPayrollRecord writes the monthly aggregation, replacing any
// previous computation for the same (employee, year, month).
func (s *PostgresStore) UpsertPayrollRecord(ctx context.Context, r *models.PayrollRecord) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.ComputedAt = time.Now()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO payroll_records (id, employee_id, year, month, working_days, present_days, absent_days, base_salary, total_deduction, net_salary, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (employee_id, year, month) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			base_salary = EXCLUDED.base_salary,
			total_deduction = EXCLUDED.total_deduction,
			net_salary = EXCLUDED.net_salary,
			computed_at = EXCLUDED.computed_at`,
		r.ID, r.EmployeeID, r.Year, r.Month, r.WorkingDays, r.PresentDays, r.AbsentDays,
		r.BaseSalary, r.TotalDeduction, r.NetSalary, r.ComputedAt)
	if err != nil {
		return fmt.Errorf("upsert payroll record: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPayrollRecord(ctx context.Context, employeeID uuid.UUID, year, month int) (*models.PayrollRecord, error) {
	r := &models.PayrollRecord{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, employee_id, year, month, working_days, present_days, absent_days, base_salary, total_deduction, net_salary, computed_at
		 FROM payroll_records WHERE employee_id = $1 AND year = $2 AND month = $3`,
		employeeID, year, month,
	).Scan(&r.ID, &r.EmployeeID, &r.Year, &r.Month, &r.WorkingDays, &r.PresentDays, &r.AbsentDays,
		&r.BaseSalary, &r.TotalDeduction, &r.NetSalary, &r.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payroll record: %w", err)
	}
	return r, nil
}

// ListPayrollRecords returns a month's records, optionally scoped to the
// employees of one location.
func (s *PostgresStore) ListPayrollRecords(ctx context.Context, locationID *uuid.UUID, year, month int) ([]models.PayrollRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pr.id, pr.employee_id, pr.year, pr.month, pr.working_days, pr.present_days, pr.absent_days, pr.base_salary, pr.total_deduction, pr.net_salary, pr.computed_at
		 FROM payroll_records pr
		 JOIN employees e ON e.id = pr.employee_id
		 WHERE pr.year = $1 AND pr.month = $2
		   AND ($3::uuid IS NULL OR e.location_id = $3)
		 ORDER BY e.name`,
		year, month, locationID)
	if err != nil {
		return nil, fmt.Errorf("list payroll records: %w", err)
	}
	defer rows.Close()

	var records []models.PayrollRecord
	for rows.Next() {
		var r models.PayrollRecord
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Year, &r.Month, &r.WorkingDays, &r.PresentDays,
			&r.AbsentDays, &r.BaseSalary, &r.TotalDeduction, &r.NetSalary, &r.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan payroll record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
