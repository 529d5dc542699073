package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/attend/internal/geo"
	"github.com/your-org/attend/internal/match"
	"github.com/your-org/attend/internal/models"
)

type fakeRepo struct {
	employees map[uuid.UUID]*models.Employee
	events    []models.AttendanceEvent
	anchors   []geo.Anchor

	failAppendWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{employees: make(map[uuid.UUID]*models.Employee)}
}

func (r *fakeRepo) addEmployee(name string, embedding []float32) *models.Employee {
	e := &models.Employee{ID: uuid.New(), Name: name, Embedding: embedding}
	r.employees[e.ID] = e
	return e
}

func (r *fakeRepo) FaceTemplates(ctx context.Context, locationID *uuid.UUID) ([]match.Candidate, error) {
	var out []match.Candidate
	for _, e := range r.employees {
		out = append(out, match.Candidate{EmployeeID: e.ID, Embedding: e.Embedding})
	}
	return out, nil
}

func (r *fakeRepo) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return r.employees[id], nil
}

func (r *fakeRepo) CreateEmployee(ctx context.Context, e *models.Employee) error {
	r.employees[e.ID] = e
	return nil
}

func (r *fakeRepo) EventsForDay(ctx context.Context, employeeID uuid.UUID, day time.Time, zone string) ([]models.AttendanceEvent, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	var out []models.AttendanceEvent
	for _, ev := range r.events {
		if ev.EmployeeID == employeeID && SameLocalDay(ev.Timestamp, day, loc) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeRepo) AppendEvent(ctx context.Context, ev *models.AttendanceEvent) error {
	if r.failAppendWith != nil {
		return r.failAppendWith
	}
	r.events = append(r.events, *ev)
	return nil
}

func (r *fakeRepo) GeofenceAnchors(ctx context.Context, employeeID uuid.UUID) ([]geo.Anchor, error) {
	return r.anchors, nil
}

func fixedExtract(embedding []float32) ExtractFunc {
	return func([]byte) ([]float32, error) { return embedding, nil }
}

func testEmbedding(fill float32) []float32 {
	e := make([]float32, 512)
	for i := range e {
		e[i] = fill
	}
	return e
}

func testEngine(repo *fakeRepo, extract ExtractFunc, now time.Time) *Engine {
	zone, _ := time.LoadLocation("Asia/Kolkata")
	return NewEngine(repo, extract, Options{
		Zone: zone,
		Now:  func() time.Time { return now },
	})
}

func TestProcessScanNoFace(t *testing.T) {
	repo := newFakeRepo()
	repo.addEmployee("Asha", testEmbedding(0.1))

	e := testEngine(repo, fixedExtract(nil), time.Now())

	out, err := e.ProcessScan(context.Background(), []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusNoFace {
		t.Errorf("status = %s, want %s", out.Status, StatusNoFace)
	}
	if len(repo.events) != 0 {
		t.Errorf("no-face scan wrote %d events", len(repo.events))
	}
}

func TestProcessScanNoEmployees(t *testing.T) {
	repo := newFakeRepo()
	e := testEngine(repo, fixedExtract(testEmbedding(0.1)), time.Now())

	out, err := e.ProcessScan(context.Background(), []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusNoEmployees {
		t.Errorf("status = %s, want %s", out.Status, StatusNoEmployees)
	}
	if len(repo.events) != 0 {
		t.Errorf("scan against empty pool wrote %d events", len(repo.events))
	}
}

func TestProcessScanNotRecognized(t *testing.T) {
	repo := newFakeRepo()
	repo.addEmployee("Asha", testEmbedding(0.1))

	// Far from every template.
	e := testEngine(repo, fixedExtract(testEmbedding(0.9)), time.Now())

	out, err := e.ProcessScan(context.Background(), []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusNotRecognized {
		t.Errorf("status = %s, want %s", out.Status, StatusNotRecognized)
	}
	if len(repo.events) != 0 {
		t.Errorf("unrecognized scan wrote %d events", len(repo.events))
	}
}

func TestProcessScanFullDay(t *testing.T) {
	repo := newFakeRepo()
	emp := repo.addEmployee("Asha", testEmbedding(0.1))

	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	e := testEngine(repo, fixedExtract(testEmbedding(0.1)), now)
	ctx := context.Background()

	// First scan of the day checks in.
	out, err := e.ProcessScan(ctx, []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusMarked || out.Kind != models.EventCheckIn {
		t.Fatalf("first scan: status=%s kind=%s", out.Status, out.Kind)
	}
	if out.EmployeeID != emp.ID || out.Confidence != 1.0 {
		t.Errorf("first scan: employee=%s confidence=%v", out.EmployeeID, out.Confidence)
	}
	if len(repo.events) != 1 {
		t.Fatalf("first scan wrote %d events, want 1", len(repo.events))
	}

	// Second scan checks out.
	out, err = e.ProcessScan(ctx, []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusMarked || out.Kind != models.EventCheckOut {
		t.Fatalf("second scan: status=%s kind=%s", out.Status, out.Kind)
	}
	if len(repo.events) != 2 {
		t.Fatalf("second scan wrote %d events total, want 2", len(repo.events))
	}

	// Third scan is rejected and writes nothing.
	out, err = e.ProcessScan(ctx, []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusAlreadyDone {
		t.Fatalf("third scan: status=%s, want %s", out.Status, StatusAlreadyDone)
	}
	if len(repo.events) != 2 {
		t.Errorf("third scan wrote events: %d total", len(repo.events))
	}
}

func TestProcessScanDuplicateRace(t *testing.T) {
	repo := newFakeRepo()
	repo.addEmployee("Asha", testEmbedding(0.1))
	repo.failAppendWith = models.ErrDuplicateEvent

	e := testEngine(repo, fixedExtract(testEmbedding(0.1)), time.Now())

	out, err := e.ProcessScan(context.Background(), []byte("img"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusAlreadyDone {
		t.Errorf("status = %s, want %s on unique violation", out.Status, StatusAlreadyDone)
	}
}

func TestProcessScanGeofenceIsInformational(t *testing.T) {
	lat, lon := 12.9716, 77.5946
	repo := newFakeRepo()
	repo.addEmployee("Asha", testEmbedding(0.1))
	siteLat, siteLon := lat, lon
	repo.anchors = []geo.Anchor{{ID: uuid.New(), Name: "HQ", Latitude: &siteLat, Longitude: &siteLon}}

	e := testEngine(repo, fixedExtract(testEmbedding(0.1)), time.Now())
	ctx := context.Background()

	// Inside the fence: the site is resolved onto the event.
	out, err := e.ProcessScan(ctx, []byte("img"), &Coords{Latitude: lat, Longitude: lon})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusMarked {
		t.Fatalf("status = %s, want %s", out.Status, StatusMarked)
	}
	if out.Site == nil || out.Site.Anchor.Name != "HQ" {
		t.Error("in-fence scan should resolve the site")
	}
	if len(repo.events) != 1 || repo.events[0].SiteID == nil {
		t.Error("resolved site must be written on the event")
	}

	// Far outside the fence: attendance is still marked, site stays nil.
	out, err = e.ProcessScan(ctx, []byte("img"), &Coords{Latitude: lat + 1, Longitude: lon})
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusMarked {
		t.Fatalf("out-of-fence scan: status = %s, want %s", out.Status, StatusMarked)
	}
	if out.Site != nil {
		t.Error("out-of-fence scan must not resolve a site")
	}
	if len(repo.events) != 2 {
		t.Fatalf("wrote %d events, want 2", len(repo.events))
	}
	if repo.events[1].SiteID != nil {
		t.Error("out-of-fence event must have no site")
	}
	if repo.events[1].Latitude == nil || *repo.events[1].Latitude != lat+1 {
		t.Error("raw coordinates must still be recorded")
	}
}

func TestRegisterEmployee(t *testing.T) {
	repo := newFakeRepo()
	e := testEngine(repo, fixedExtract(testEmbedding(0.2)), time.Now())
	ctx := context.Background()

	res, err := e.RegisterEmployee(ctx, RegisterInput{Name: "  ", FaceImage: []byte("img")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusMissingName {
		t.Errorf("blank name: status = %s, want %s", res.Status, StatusMissingName)
	}

	noFace := testEngine(repo, fixedExtract(nil), time.Now())
	res, err = noFace.RegisterEmployee(ctx, RegisterInput{Name: "Asha", FaceImage: []byte("img")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusNoFace {
		t.Errorf("faceless photo: status = %s, want %s", res.Status, StatusNoFace)
	}
	if len(repo.employees) != 0 {
		t.Error("failed registration must not create an employee")
	}

	res, err = e.RegisterEmployee(ctx, RegisterInput{Name: " Asha ", FaceImage: []byte("img")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusRegistered {
		t.Fatalf("status = %s, want %s", res.Status, StatusRegistered)
	}
	if res.Employee.Name != "Asha" {
		t.Errorf("name = %q, want trimmed %q", res.Employee.Name, "Asha")
	}
	if len(repo.employees) != 1 {
		t.Errorf("repo holds %d employees, want 1", len(repo.employees))
	}
}
