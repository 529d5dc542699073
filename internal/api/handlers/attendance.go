package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/attend/internal/attendance"
	"github.com/your-org/attend/internal/storage"
	"github.com/your-org/attend/pkg/dto"
)

const timestampLayout = "2006-01-02 15:04:05"

// AttendanceHandler owns the scan and registration endpoints plus the
// attendance log.
type AttendanceHandler struct {
	engine *attendance.Engine
	db     *storage.PostgresStore
	minio  *storage.MinIOStore
}

func NewAttendanceHandler(engine *attendance.Engine, db *storage.PostgresStore, minio *storage.MinIOStore) *AttendanceHandler {
	return &AttendanceHandler{engine: engine, db: db, minio: minio}
}

// Scan handles POST /v1/attendance/scan: a multipart image plus optional
// latitude/longitude form fields.
func (h *AttendanceHandler) Scan(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	// Unparsable coordinates skip geofencing but never block the scan.
	var coords *attendance.Coords
	latStr, lonStr := c.PostForm("latitude"), c.PostForm("longitude")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			coords = &attendance.Coords{Latitude: lat, Longitude: lon}
		}
	}

	outcome, err := h.engine.ProcessScan(c.Request.Context(), imageData, coords)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch outcome.Status {
	case attendance.StatusNoFace:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No face detected"})
	case attendance.StatusNoEmployees:
		c.JSON(http.StatusNotFound, gin.H{"error": "No employees registered"})
	case attendance.StatusNotRecognized:
		c.JSON(http.StatusNotFound, gin.H{"error": "Face not recognized"})
	case attendance.StatusAlreadyDone:
		c.JSON(http.StatusOK, dto.ScanResponse{
			Status:     "Attendance already marked",
			Message:    "check-in and check-out already recorded today",
			Employee:   outcome.EmployeeName,
			Confidence: outcome.Confidence,
			Timestamp:  outcome.Timestamp.Format(timestampLayout),
		})
	default:
		resp := dto.ScanResponse{
			Status:     "Attendance marked",
			Message:    string(outcome.Kind) + " recorded",
			Employee:   outcome.EmployeeName,
			Kind:       string(outcome.Kind),
			Confidence: outcome.Confidence,
			Timestamp:  outcome.Timestamp.Format(timestampLayout),
		}
		if outcome.Site != nil {
			resp.Site = outcome.Site.Anchor.Name
			resp.DistanceKm = outcome.Site.DistanceKm
		}
		if outcome.SnapshotKey != "" {
			resp.PhotoURL = "/v1/photos/" + outcome.SnapshotKey
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Register handles POST /v1/employees/register: multipart with name,
// face_image, optional profile_photo, location_id and payroll parameters.
func (h *AttendanceHandler) Register(c *gin.Context) {
	name := c.PostForm("name")

	file, _, err := c.Request.FormFile("face_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "face_image file required"})
		return
	}
	defer file.Close()

	faceData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	in := attendance.RegisterInput{Name: name, FaceImage: faceData}

	if locStr := c.PostForm("location_id"); locStr != "" {
		id, err := uuid.Parse(locStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		in.LocationID = &id
	}
	if v := c.PostForm("base_salary"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			in.BaseSalary = f
		}
	}
	if v := c.PostForm("deduction_per_day"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			in.DeductionPerDay = f
		}
	}

	if photo, header, err := c.Request.FormFile("profile_photo"); err == nil {
		defer photo.Close()
		photoData, err := io.ReadAll(photo)
		if err == nil {
			key := "profiles/" + uuid.New().String()
			if err := h.minio.PutObject(c.Request.Context(), key, photoData, header.Header.Get("Content-Type")); err == nil {
				in.ProfilePhotoKey = key
			}
		}
	}

	result, err := h.engine.RegisterEmployee(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch result.Status {
	case attendance.StatusMissingName:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
	case attendance.StatusNoFace:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No face detected"})
	default:
		c.JSON(http.StatusCreated, dto.RegisterResponse{
			Status:     "Employee registered",
			EmployeeID: result.Employee.ID,
			Name:       result.Employee.Name,
		})
	}
}

// Events handles GET /v1/attendance/events with employee_id, location_id,
// from, to, limit and offset query parameters.
func (h *AttendanceHandler) Events(c *gin.Context) {
	var employeeID, locationID *uuid.UUID
	if v := c.Query("employee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
			return
		}
		employeeID = &id
	}
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = &t
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, total, err := h.db.QueryEvents(c.Request.Context(), employeeID, locationID, from, to, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	zone := h.engine.Zone()
	resp := make([]dto.EventResponse, 0, len(events))
	for _, ev := range events {
		r := dto.EventResponse{
			ID:         ev.ID,
			EmployeeID: ev.EmployeeID,
			Kind:       string(ev.Kind),
			Timestamp:  ev.Timestamp.In(zone).Format(time.RFC3339),
			SiteID:     ev.SiteID,
			Latitude:   ev.Latitude,
			Longitude:  ev.Longitude,
			DistanceKm: ev.DistanceKm,
			Confidence: ev.Confidence,
		}
		if ev.SnapshotKey != "" {
			r.SnapshotURL = "/v1/photos/" + ev.SnapshotKey
		}
		resp = append(resp, r)
	}

	c.JSON(http.StatusOK, gin.H{"events": resp, "total": total})
}

// Photo handles GET /v1/photos/*key, streaming an object from MinIO.
func (h *AttendanceHandler) Photo(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo key required"})
		return
	}

	data, err := h.minio.GetObject(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
