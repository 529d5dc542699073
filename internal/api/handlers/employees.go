package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/attend/internal/attendance"
	"github.com/your-org/attend/internal/storage"
	"github.com/your-org/attend/pkg/dto"
)

// EmployeesHandler owns the employee directory endpoints.
type EmployeesHandler struct {
	db      *storage.PostgresStore
	extract attendance.ExtractFunc
}

func NewEmployeesHandler(db *storage.PostgresStore, extract attendance.ExtractFunc) *EmployeesHandler {
	return &EmployeesHandler{db: db, extract: extract}
}

// List handles GET /v1/employees, optionally scoped by location_id.
func (h *EmployeesHandler) List(c *gin.Context) {
	var locationID *uuid.UUID
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	employees, err := h.db.ListEmployees(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		r := dto.EmployeeResponse{
			ID:              e.ID,
			Name:            e.Name,
			LocationID:      e.LocationID,
			BaseSalary:      e.BaseSalary,
			DeductionPerDay: e.DeductionPerDay,
			HasTemplate:     true,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		}
		if e.PhotoKey != "" {
			r.PhotoURL = "/v1/photos/" + e.PhotoKey
		}
		resp = append(resp, r)
	}
	c.JSON(http.StatusOK, gin.H{"employees": resp})
}

// Get handles GET /v1/employees/:id.
func (h *EmployeesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}

	e, err := h.db.GetEmployee(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	r := dto.EmployeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		LocationID:      e.LocationID,
		BaseSalary:      e.BaseSalary,
		DeductionPerDay: e.DeductionPerDay,
		HasTemplate:     true,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
	if e.PhotoKey != "" {
		r.PhotoURL = "/v1/photos/" + e.PhotoKey
	}
	c.JSON(http.StatusOK, r)
}

// Update handles PATCH /v1/employees/:id with partial fields.
func (h *EmployeesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpdateEmployee(c.Request.Context(), id, req.Name, req.LocationID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// ReplaceFace handles PUT /v1/employees/:id/face: a new face_image replaces
// the stored template in one statement.
func (h *EmployeesHandler) ReplaceFace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}

	file, _, err := c.Request.FormFile("face_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "face_image file required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	embedding, err := h.extract(imageData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if embedding == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No face detected"})
		return
	}

	if err := h.db.ReplaceTemplate(c.Request.Context(), id, embedding); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "face updated"})
}
