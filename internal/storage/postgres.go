package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/attend/internal/config"
	"github.com/your-org/attend/internal/match"
	"github.com/your-org/attend/internal/models"
)

// PostgresStore is the single persistence entry point. zone is the IANA
// zone name used for day bucketing; it is baked into the dedup index so
// "one check-in per day" means the same day everywhere.
type PostgresStore struct {
	pool *pgxpool.Pool
	zone string
}

func NewPostgresStore(cfg config.DatabaseConfig, zone string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool, zone: zone}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates tables and indexes if they don't exist. The unique
// index on (employee, local day, kind) is what turns two concurrent scans
// into exactly one event.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS locations (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS sites (
			id UUID PRIMARY KEY,
			location_id UUID NOT NULL REFERENCES locations(id),
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			embedding vector(512) NOT NULL,
			photo_key TEXT NOT NULL DEFAULT '',
			location_id UUID REFERENCES locations(id),
			base_salary DOUBLE PRECISION NOT NULL DEFAULT 0,
			deduction_per_day DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS employee_sites (
			employee_id UUID NOT NULL REFERENCES employees(id),
			site_id UUID NOT NULL REFERENCES sites(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (employee_id, site_id)
		)`,
		`CREATE TABLE IF NOT EXISTS shifts (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id UUID PRIMARY KEY,
			employee_id UUID NOT NULL REFERENCES employees(id),
			shift_id UUID NOT NULL REFERENCES shifts(id),
			location_id UUID NOT NULL REFERENCES locations(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (employee_id, location_id)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_events (
			id UUID PRIMARY KEY,
			employee_id UUID NOT NULL REFERENCES employees(id),
			kind TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			site_id UUID REFERENCES sites(id),
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			distance_km DOUBLE PRECISION,
			confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			snapshot_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS attendance_events_day_kind
			ON attendance_events (employee_id, ((timestamp AT TIME ZONE '%s')::date), kind)`, s.zone),
		`CREATE TABLE IF NOT EXISTS payroll_records (
			id UUID PRIMARY KEY,
			employee_id UUID NOT NULL REFERENCES employees(id),
			year INT NOT NULL,
			month INT NOT NULL,
			working_days INT NOT NULL,
			present_days INT NOT NULL,
			absent_days INT NOT NULL,
			base_salary DOUBLE PRECISION NOT NULL,
			total_deduction DOUBLE PRECISION NOT NULL,
			net_salary DOUBLE PRECISION NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (employee_id, year, month)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- Employees ---

func (s *PostgresStore) CreateEmployee(ctx context.Context, e *models.Employee) error {
	vec := pgvector.NewVector(e.Embedding)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO employees (id, name, embedding, photo_key, location_id, base_salary, deduction_per_day)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`,
		e.ID, e.Name, vec, e.PhotoKey, e.LocationID, e.BaseSalary, e.DeductionPerDay,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e := &models.Employee{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, photo_key, location_id, base_salary, deduction_per_day, created_at, updated_at
		 FROM employees WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.PhotoKey, &e.LocationID, &e.BaseSalary, &e.DeductionPerDay, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context, locationID *uuid.UUID) ([]models.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, photo_key, location_id, base_salary, deduction_per_day, created_at, updated_at
		 FROM employees
		 WHERE $1::uuid IS NULL OR location_id = $1
		 ORDER BY name`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.PhotoKey, &e.LocationID,
			&e.BaseSalary, &e.DeductionPerDay, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func (s *PostgresStore) UpdateEmployee(ctx context.Context, id uuid.UUID, name *string, locationID *uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE employees SET
			name = COALESCE($2, name),
			location_id = COALESCE($3, location_id),
			updated_at = now()
		 WHERE id = $1`, id, name, locationID)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee not found")
	}
	return nil
}

// ReplaceTemplate swaps an employee's face template in one statement, so a
// concurrent scan sees either the old or the new vector, never a mix.
func (s *PostgresStore) ReplaceTemplate(ctx context.Context, id uuid.UUID, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	tag, err := s.pool.Exec(ctx,
		`UPDATE employees SET embedding = $2, updated_at = now() WHERE id = $1`, id, vec)
	if err != nil {
		return fmt.Errorf("replace template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee not found")
	}
	return nil
}

// FaceTemplates returns every employee's (id, embedding) pair, optionally
// scoped to a location, ordered by registration time so the matcher's
// first-listed tie-break is stable.
func (s *PostgresStore) FaceTemplates(ctx context.Context, locationID *uuid.UUID) ([]match.Candidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, embedding FROM employees
		 WHERE $1::uuid IS NULL OR location_id = $1
		 ORDER BY created_at`, locationID)
	if err != nil {
		return nil, fmt.Errorf("load face templates: %w", err)
	}
	defer rows.Close()

	var candidates []match.Candidate
	for rows.Next() {
		var id uuid.UUID
		var vec pgvector.Vector
		if err := rows.Scan(&id, &vec); err != nil {
			return nil, fmt.Errorf("scan face template: %w", err)
		}
		candidates = append(candidates, match.Candidate{EmployeeID: id, Embedding: vec.Slice()})
	}
	return candidates, nil
}

// --- Attendance events ---

// AppendEvent inserts one immutable attendance event. A unique-index
// violation means another scan already recorded this (employee, day, kind)
// and is reported as models.ErrDuplicateEvent.
func (s *PostgresStore) AppendEvent(ctx context.Context, ev *models.AttendanceEvent) error {
	ev.CreatedAt = time.Now()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO attendance_events (id, employee_id, kind, timestamp, site_id, latitude, longitude, distance_km, confidence, snapshot_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ev.ID, ev.EmployeeID, ev.Kind, ev.Timestamp, ev.SiteID,
		ev.Latitude, ev.Longitude, ev.DistanceKm, ev.Confidence, ev.SnapshotKey, ev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateEvent
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// EventsForDay returns an employee's events whose own timestamp falls on
// the same calendar day as ref in the given zone.
func (s *PostgresStore) EventsForDay(ctx context.Context, employeeID uuid.UUID, ref time.Time, zone string) ([]models.AttendanceEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, employee_id, kind, timestamp, site_id, latitude, longitude, distance_km, confidence, snapshot_key, created_at
		 FROM attendance_events
		 WHERE employee_id = $1
		   AND (timestamp AT TIME ZONE $2)::date = ($3::timestamptz AT TIME ZONE $2)::date
		 ORDER BY timestamp`,
		employeeID, zone, ref)
	if err != nil {
		return nil, fmt.Errorf("events for day: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// QueryEvents lists events filtered by employee and/or location and an
// optional instant range, newest first.
func (s *PostgresStore) QueryEvents(ctx context.Context, employeeID, locationID *uuid.UUID, from, to *time.Time, limit, offset int) ([]models.AttendanceEvent, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if employeeID != nil {
		baseWhere += fmt.Sprintf(" AND ae.employee_id = $%d", argIdx)
		args = append(args, *employeeID)
		argIdx++
	}
	if locationID != nil {
		baseWhere += fmt.Sprintf(" AND e.location_id = $%d", argIdx)
		args = append(args, *locationID)
		argIdx++
	}
	if from != nil {
		baseWhere += fmt.Sprintf(" AND ae.timestamp >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		baseWhere += fmt.Sprintf(" AND ae.timestamp <= $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM attendance_events ae JOIN employees e ON e.id = ae.employee_id " + baseWhere
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT ae.id, ae.employee_id, ae.kind, ae.timestamp, ae.site_id, ae.latitude, ae.longitude, ae.distance_km, ae.confidence, ae.snapshot_key, ae.created_at
		 FROM attendance_events ae JOIN employees e ON e.id = ae.employee_id
		 %s ORDER BY ae.timestamp DESC LIMIT $%d OFFSET $%d`,
		baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func scanEvents(rows pgx.Rows) ([]models.AttendanceEvent, error) {
	var events []models.AttendanceEvent
	for rows.Next() {
		var ev models.AttendanceEvent
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Kind, &ev.Timestamp, &ev.SiteID,
			&ev.Latitude, &ev.Longitude, &ev.DistanceKm, &ev.Confidence, &ev.SnapshotKey, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
