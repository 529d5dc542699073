package dto

import "github.com/google/uuid"

type CreateLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt string    `json:"created_at"`
}

type CreateSiteRequest struct {
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
}

type SiteResponse struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  string    `json:"created_at"`
}

type CreateShiftRequest struct {
	Name      string `json:"name" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type ShiftResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt string    `json:"created_at"`
}

// BulkAssignShiftRequest assigns one shift to many employees at a location.
type BulkAssignShiftRequest struct {
	EmployeeIDs []uuid.UUID `json:"employee_ids" binding:"required"`
	ShiftID     uuid.UUID   `json:"shift_id" binding:"required"`
	LocationID  uuid.UUID   `json:"location_id" binding:"required"`
}

// BulkAssignSitesRequest grants many employees access to many sites.
type BulkAssignSitesRequest struct {
	EmployeeIDs []uuid.UUID `json:"employee_ids" binding:"required"`
	SiteIDs     []uuid.UUID `json:"site_ids" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Name       *string    `json:"name"`
	LocationID *uuid.UUID `json:"location_id"`
}

type EmployeeResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	LocationID      *uuid.UUID `json:"location_id,omitempty"`
	BaseSalary      float64    `json:"base_salary"`
	DeductionPerDay float64    `json:"deduction_per_day"`
	HasTemplate     bool       `json:"has_face_encoding"`
	PhotoURL        string     `json:"photo_url,omitempty"`
	CreatedAt       string     `json:"created_at"`
}
