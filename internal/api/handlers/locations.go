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

// LocationsHandler owns locations, sites and site-access assignment.
type LocationsHandler struct {
	db *storage.PostgresStore
}

func NewLocationsHandler(db *storage.PostgresStore) *LocationsHandler {
	return &LocationsHandler{db: db}
}

func (h *LocationsHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := &models.Location{Name: req.Name, Latitude: req.Latitude, Longitude: req.Longitude}
	if err := h.db.CreateLocation(c.Request.Context(), l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, locationToDTO(l))
}

func (h *LocationsHandler) ListLocations(c *gin.Context) {
	locations, err := h.db.ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		resp = append(resp, locationToDTO(&locations[i]))
	}
	c.JSON(http.StatusOK, gin.H{"locations": resp})
}

func (h *LocationsHandler) UpdateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}

	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := &models.Location{ID: id, Name: req.Name, Latitude: req.Latitude, Longitude: req.Longitude}
	if err := h.db.UpdateLocation(c.Request.Context(), l); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *LocationsHandler) DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location id"})
		return
	}
	if err := h.db.DeleteLocation(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *LocationsHandler) CreateSite(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	site := &models.Site{
		LocationID: req.LocationID,
		Name:       req.Name,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if err := h.db.CreateSite(c.Request.Context(), site); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, siteToDTO(site))
}

func (h *LocationsHandler) ListSites(c *gin.Context) {
	var locationID *uuid.UUID
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	sites, err := h.db.ListSites(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.SiteResponse, 0, len(sites))
	for i := range sites {
		resp = append(resp, siteToDTO(&sites[i]))
	}
	c.JSON(http.StatusOK, gin.H{"sites": resp})
}

func (h *LocationsHandler) DeleteSite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
		return
	}
	if err := h.db.DeleteSite(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AssignSites handles POST /v1/sites/assign: grants each listed employee
// access to each listed site.
func (h *LocationsHandler) AssignSites(c *gin.Context) {
	var req dto.BulkAssignSitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.EmployeeIDs) == 0 || len(req.SiteIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_ids and site_ids must be non-empty"})
		return
	}

	if err := h.db.AssignSites(c.Request.Context(), req.EmployeeIDs, req.SiteIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "assigned",
		"employees": len(req.EmployeeIDs),
		"sites":     len(req.SiteIDs),
	})
}

func locationToDTO(l *models.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

func siteToDTO(s *models.Site) dto.SiteResponse {
	return dto.SiteResponse{
		ID:         s.ID,
		LocationID: s.LocationID,
		Name:       s.Name,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}
