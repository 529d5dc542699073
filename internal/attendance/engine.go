package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/attend/internal/geo"
	"github.com/your-org/attend/internal/match"
	"github.com/your-org/attend/internal/models"
	"github.com/your-org/attend/internal/observability"
)

// Status classifies the outcome of a scan or registration. All of these
// are expected results returned to the client; only repository or
// extractor failures surface as errors.
type Status string

const (
	StatusMarked        Status = "marked"
	StatusAlreadyDone   Status = "already_complete"
	StatusNoFace        Status = "no_face_detected"
	StatusNoEmployees   Status = "no_employees_registered"
	StatusNotRecognized Status = "face_not_recognized"
	StatusMissingName   Status = "missing_name"
	StatusRegistered    Status = "registered"
)

// Outcome is the result of processing one scan.
type Outcome struct {
	Status       Status
	EmployeeID   uuid.UUID
	EmployeeName string
	Kind         models.EventKind
	Confidence   float64
	Timestamp    time.Time // in the engine's local zone
	Site         *geo.Resolved
	SnapshotKey  string
}

// RegisterResult is the result of registering an employee.
type RegisterResult struct {
	Status   Status
	Employee *models.Employee
}

// Coords is an optional scan position.
type Coords struct {
	Latitude  float64
	Longitude float64
}

// Repository is the persistence surface the engine depends on.
// Implementations must exclude soft-deleted locations and sites from
// GeofenceAnchors and enforce a unique (employee, local day, kind)
// constraint in AppendEvent, returning models.ErrDuplicateEvent on
// violation.
type Repository interface {
	FaceTemplates(ctx context.Context, locationID *uuid.UUID) ([]match.Candidate, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	CreateEmployee(ctx context.Context, e *models.Employee) error
	EventsForDay(ctx context.Context, employeeID uuid.UUID, day time.Time, zone string) ([]models.AttendanceEvent, error)
	AppendEvent(ctx context.Context, ev *models.AttendanceEvent) error
	GeofenceAnchors(ctx context.Context, employeeID uuid.UUID) ([]geo.Anchor, error)
}

// ExtractFunc obtains a face embedding from raw image bytes.
// A (nil, nil) return means no face was found — a soft outcome, not an
// error. Errors are reserved for extractor malfunction.
type ExtractFunc func(image []byte) ([]float32, error)

// Snapshots stores scan images. Optional; a nil store skips snapshots.
type Snapshots interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

// Publisher emits recorded events for downstream consumers. Optional.
type Publisher interface {
	PublishScan(ctx context.Context, ev models.ScanEvent) error
}

// Engine turns an uploaded image into at most one attendance event.
type Engine struct {
	repo      Repository
	extract   ExtractFunc
	snapshots Snapshots
	publisher Publisher
	tolerance float64
	radiusKm  float64
	zone      *time.Location
	now       func() time.Time
}

// Options configures an Engine. Zero values fall back to the deployment
// defaults (tolerance 0.45, radius 0.05 km, UTC, time.Now).
type Options struct {
	Tolerance float64
	RadiusKm  float64
	Zone      *time.Location
	Now       func() time.Time
	Snapshots Snapshots
	Publisher Publisher
}

func NewEngine(repo Repository, extract ExtractFunc, opts Options) *Engine {
	e := &Engine{
		repo:      repo,
		extract:   extract,
		snapshots: opts.Snapshots,
		publisher: opts.Publisher,
		tolerance: opts.Tolerance,
		radiusKm:  opts.RadiusKm,
		zone:      opts.Zone,
		now:       opts.Now,
	}
	if e.tolerance <= 0 {
		e.tolerance = match.DefaultTolerance
	}
	if e.radiusKm <= 0 {
		e.radiusKm = geo.DefaultRadiusKm
	}
	if e.zone == nil {
		e.zone = time.UTC
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Zone returns the local zone the engine buckets days in.
func (e *Engine) Zone() *time.Location {
	return e.zone
}

// ProcessScan runs the full pipeline: extract → match → decide →
// geofence → persist → publish. Exactly one event is written on the
// marked path; every other status writes nothing.
func (e *Engine) ProcessScan(ctx context.Context, image []byte, coords *Coords) (Outcome, error) {
	start := e.now()

	embedding, err := e.extract(image)
	if err != nil {
		return Outcome{}, fmt.Errorf("extract embedding: %w", err)
	}
	observability.ExtractionDuration.Observe(time.Since(start).Seconds())
	if embedding == nil {
		observability.ScansProcessed.WithLabelValues(string(StatusNoFace)).Inc()
		return Outcome{Status: StatusNoFace}, nil
	}

	candidates, err := e.repo.FaceTemplates(ctx, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("load face templates: %w", err)
	}
	if len(candidates) == 0 {
		observability.ScansProcessed.WithLabelValues(string(StatusNoEmployees)).Inc()
		return Outcome{Status: StatusNoEmployees}, nil
	}

	res := match.Best(embedding, candidates, e.tolerance)
	if !res.Matched {
		observability.ScansProcessed.WithLabelValues(string(StatusNotRecognized)).Inc()
		return Outcome{Status: StatusNotRecognized}, nil
	}

	emp, err := e.repo.GetEmployee(ctx, res.EmployeeID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load employee: %w", err)
	}
	if emp == nil {
		return Outcome{}, fmt.Errorf("matched employee %s not found", res.EmployeeID)
	}

	now := e.now().In(e.zone)

	today, err := e.repo.EventsForDay(ctx, emp.ID, now, e.zone.String())
	if err != nil {
		return Outcome{}, fmt.Errorf("load today's events: %w", err)
	}

	action := Decide(FilterDay(today, now, e.zone))
	if action == ActionReject {
		observability.ScansProcessed.WithLabelValues(string(StatusAlreadyDone)).Inc()
		return Outcome{
			Status:       StatusAlreadyDone,
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Confidence:   res.Confidence,
			Timestamp:    now,
		}, nil
	}

	ev := &models.AttendanceEvent{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Kind:       action.Kind(),
		Timestamp:  now,
		Confidence: res.Confidence,
	}

	// Geofencing is informational: a miss or bad coordinates never blocks
	// the event, it just leaves the site unresolved.
	var resolved *geo.Resolved
	if coords != nil {
		lat, lon := coords.Latitude, coords.Longitude
		ev.Latitude, ev.Longitude = &lat, &lon

		anchors, err := e.repo.GeofenceAnchors(ctx, emp.ID)
		if err != nil {
			slog.Warn("load geofence anchors", "employee", emp.ID, "error", err)
		} else if resolved = geo.Resolve(lat, lon, anchors, e.radiusKm); resolved != nil {
			siteID := resolved.Anchor.ID
			dist := resolved.DistanceKm
			ev.SiteID, ev.DistanceKm = &siteID, &dist
			slog.Info("scan geofenced", "employee", emp.Name, "site", resolved.Anchor.Name, "distance_km", dist)
		}
	}

	if e.snapshots != nil && len(image) > 0 {
		key := fmt.Sprintf("scans/%s/%s.jpg", emp.ID, now.Format("20060102_150405"))
		if err := e.snapshots.PutObject(ctx, key, image, "image/jpeg"); err != nil {
			slog.Warn("store scan snapshot", "error", err)
		} else {
			ev.SnapshotKey = key
		}
	}

	if err := e.repo.AppendEvent(ctx, ev); err != nil {
		if errors.Is(err, models.ErrDuplicateEvent) {
			// A concurrent scan won the race; report the same rejection
			// the loser would have seen a moment later.
			observability.ScansProcessed.WithLabelValues(string(StatusAlreadyDone)).Inc()
			return Outcome{
				Status:       StatusAlreadyDone,
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Confidence:   res.Confidence,
				Timestamp:    now,
			}, nil
		}
		return Outcome{}, fmt.Errorf("append event: %w", err)
	}

	if e.publisher != nil {
		scan := models.ScanEvent{
			EventID:      ev.ID,
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Kind:         ev.Kind,
			Timestamp:    ev.Timestamp,
			Confidence:   ev.Confidence,
			LocationID:   emp.LocationID,
			DistanceKm:   ev.DistanceKm,
			SnapshotKey:  ev.SnapshotKey,
		}
		if resolved != nil {
			scan.SiteID = ev.SiteID
			scan.SiteName = resolved.Anchor.Name
		}
		if err := e.publisher.PublishScan(ctx, scan); err != nil {
			slog.Error("publish scan event", "error", err)
		}
	}

	observability.ScansProcessed.WithLabelValues(string(StatusMarked)).Inc()
	return Outcome{
		Status:       StatusMarked,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Kind:         ev.Kind,
		Confidence:   res.Confidence,
		Timestamp:    now,
		Site:         resolved,
		SnapshotKey:  ev.SnapshotKey,
	}, nil
}

// RegisterInput is the payload for RegisterEmployee.
type RegisterInput struct {
	Name            string
	FaceImage       []byte
	ProfilePhotoKey string
	LocationID      *uuid.UUID
	BaseSalary      float64
	DeductionPerDay float64
}

// RegisterEmployee extracts a template from the face image and creates the
// employee. The template is written in the same insert as the row, so no
// scan can ever observe an employee with a partial template.
func (e *Engine) RegisterEmployee(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return RegisterResult{Status: StatusMissingName}, nil
	}

	embedding, err := e.extract(in.FaceImage)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("extract embedding: %w", err)
	}
	if embedding == nil {
		return RegisterResult{Status: StatusNoFace}, nil
	}

	emp := &models.Employee{
		ID:              uuid.New(),
		Name:            name,
		Embedding:       embedding,
		PhotoKey:        in.ProfilePhotoKey,
		LocationID:      in.LocationID,
		BaseSalary:      in.BaseSalary,
		DeductionPerDay: in.DeductionPerDay,
	}
	if err := e.repo.CreateEmployee(ctx, emp); err != nil {
		return RegisterResult{}, fmt.Errorf("create employee: %w", err)
	}

	observability.EmployeesRegistered.Inc()
	slog.Info("employee registered", "id", emp.ID, "name", emp.Name)
	return RegisterResult{Status: StatusRegistered, Employee: emp}, nil
}
