package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/attend/internal/models"
	"github.com/your-org/attend/internal/storage"
	"github.com/your-org/attend/pkg/dto"
)

// ShiftsHandler owns shift definitions and bulk shift assignment.
type ShiftsHandler struct {
	db *storage.PostgresStore
}

func NewShiftsHandler(db *storage.PostgresStore) *ShiftsHandler {
	return &ShiftsHandler{db: db}
}

func (h *ShiftsHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be HH:MM"})
		return
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be HH:MM"})
		return
	}

	sh := &models.Shift{Name: req.Name, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := h.db.CreateShift(c.Request.Context(), sh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.ShiftResponse{
		ID:        sh.ID,
		Name:      sh.Name,
		StartTime: sh.StartTime,
		EndTime:   sh.EndTime,
		CreatedAt: sh.CreatedAt.Format(time.RFC3339),
	})
}

func (h *ShiftsHandler) List(c *gin.Context) {
	shifts, err := h.db.ListShifts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		resp = append(resp, dto.ShiftResponse{
			ID:        sh.ID,
			Name:      sh.Name,
			StartTime: sh.StartTime,
			EndTime:   sh.EndTime,
			CreatedAt: sh.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"shifts": resp})
}

// Assign handles POST /v1/shifts/assign: one shift to many employees at a
// location, replacing any previous assignment there.
func (h *ShiftsHandler) Assign(c *gin.Context) {
	var req dto.BulkAssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.EmployeeIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_ids must be non-empty"})
		return
	}

	if err := h.db.AssignShift(c.Request.Context(), req.EmployeeIDs, req.ShiftID, req.LocationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned", "employees": len(req.EmployeeIDs)})
}

// Assignments handles GET /v1/shifts/assignments.
func (h *ShiftsHandler) Assignments(c *gin.Context) {
	var locationID *uuid.UUID
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	assignments, err := h.db.ListAssignments(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}
