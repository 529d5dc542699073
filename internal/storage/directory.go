package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/your-org/attend/internal/geo"
	"github.com/your-org/attend/internal/models"
)

// Directory queries: locations, sites, shifts, assignments. Soft-deleted
// locations and sites are invisible here; only the Delete methods touch
// the flag.

// --- Locations ---

func (s *PostgresStore) CreateLocation(ctx context.Context, l *models.Location) error {
	l.ID = uuid.New()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO locations (id, name, latitude, longitude) VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		l.ID, l.Name, l.Latitude, l.Longitude,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	l := &models.Location{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, latitude, longitude, is_deleted, created_at, updated_at
		 FROM locations WHERE id = $1 AND is_deleted = FALSE`, id,
	).Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, latitude, longitude, is_deleted, created_at, updated_at
		 FROM locations WHERE is_deleted = FALSE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, nil
}

func (s *PostgresStore) UpdateLocation(ctx context.Context, l *models.Location) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE locations SET name = $2, latitude = $3, longitude = $4, updated_at = now()
		 WHERE id = $1 AND is_deleted = FALSE`,
		l.ID, l.Name, l.Latitude, l.Longitude)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location not found")
	}
	return nil
}

// DeleteLocation soft-deletes; rows stay for historical events but drop
// out of every listing and geofence candidate set.
func (s *PostgresStore) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE locations SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location not found")
	}
	return nil
}

// --- Sites ---

func (s *PostgresStore) CreateSite(ctx context.Context, site *models.Site) error {
	site.ID = uuid.New()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sites (id, location_id, name, latitude, longitude) VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		site.ID, site.LocationID, site.Name, site.Latitude, site.Longitude,
	).Scan(&site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSites(ctx context.Context, locationID *uuid.UUID) ([]models.Site, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, location_id, name, latitude, longitude, is_deleted, created_at, updated_at
		 FROM sites
		 WHERE is_deleted = FALSE AND ($1::uuid IS NULL OR location_id = $1)
		 ORDER BY name`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var st models.Site
		if err := rows.Scan(&st.ID, &st.LocationID, &st.Name, &st.Latitude, &st.Longitude,
			&st.IsDeleted, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, st)
	}
	return sites, nil
}

func (s *PostgresStore) DeleteSite(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sites SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("site not found")
	}
	return nil
}

// AssignSites grants employees access to sites, upserting pairs. Mirrors
// the back-office bulk assignment screen.
func (s *PostgresStore) AssignSites(ctx context.Context, employeeIDs, siteIDs []uuid.UUID) error {
	for _, eid := range employeeIDs {
		for _, sid := range siteIDs {
			_, err := s.pool.Exec(ctx,
				`INSERT INTO employee_sites (employee_id, site_id) VALUES ($1, $2)
				 ON CONFLICT (employee_id, site_id) DO NOTHING`, eid, sid)
			if err != nil {
				return fmt.Errorf("assign site %s to employee %s: %w", sid, eid, err)
			}
		}
	}
	return nil
}

// GeofenceAnchors returns the candidate set for an employee's scan: sites
// granted explicitly, sites under the employee's location, and the
// location itself when it has coordinates. Soft-deleted anchors never
// appear.
func (s *PostgresStore) GeofenceAnchors(ctx context.Context, employeeID uuid.UUID) ([]geo.Anchor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT st.id, st.name, st.latitude, st.longitude
		 FROM sites st
		 JOIN employees e ON e.id = $1
		 LEFT JOIN employee_sites es ON es.site_id = st.id AND es.employee_id = $1
		 WHERE st.is_deleted = FALSE
		   AND (es.employee_id IS NOT NULL OR st.location_id = e.location_id)
		 ORDER BY st.created_at`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("geofence anchors: %w", err)
	}
	defer rows.Close()

	var anchors []geo.Anchor
	for rows.Next() {
		var a geo.Anchor
		if err := rows.Scan(&a.ID, &a.Name, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("scan anchor: %w", err)
		}
		anchors = append(anchors, a)
	}

	// The parent location doubles as a coarse anchor when it has
	// coordinates of its own.
	var loc geo.Anchor
	err = s.pool.QueryRow(ctx,
		`SELECT l.id, l.name, l.latitude, l.longitude
		 FROM locations l JOIN employees e ON e.location_id = l.id
		 WHERE e.id = $1 AND l.is_deleted = FALSE`, employeeID,
	).Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude)
	if err == nil {
		anchors = append(anchors, loc)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("location anchor: %w", err)
	}

	return anchors, nil
}

// --- Shifts & assignments ---

func (s *PostgresStore) CreateShift(ctx context.Context, sh *models.Shift) error {
	sh.ID = uuid.New()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO shifts (id, name, start_time, end_time) VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		sh.ID, sh.Name, sh.StartTime, sh.EndTime,
	).Scan(&sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListShifts(ctx context.Context) ([]models.Shift, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, start_time, end_time, created_at, updated_at FROM shifts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var sh models.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}

// AssignShift upserts one assignment per (employee, location).
func (s *PostgresStore) AssignShift(ctx context.Context, employeeIDs []uuid.UUID, shiftID, locationID uuid.UUID) error {
	for _, eid := range employeeIDs {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO assignments (id, employee_id, shift_id, location_id)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (employee_id, location_id)
			 DO UPDATE SET shift_id = EXCLUDED.shift_id, updated_at = now()`,
			uuid.New(), eid, shiftID, locationID)
		if err != nil {
			return fmt.Errorf("assign shift to employee %s: %w", eid, err)
		}
	}
	return nil
}

func (s *PostgresStore) ListAssignments(ctx context.Context, locationID *uuid.UUID) ([]models.Assignment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, employee_id, shift_id, location_id, created_at, updated_at
		 FROM assignments
		 WHERE $1::uuid IS NULL OR location_id = $1
		 ORDER BY created_at DESC`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ShiftID, &a.LocationID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}
