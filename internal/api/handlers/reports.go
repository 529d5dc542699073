package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/attend/internal/payroll"
	"github.com/your-org/attend/internal/storage"
	"github.com/your-org/attend/pkg/dto"
)

// ReportsHandler serves monthly attendance summaries and payroll.
type ReportsHandler struct {
	db   *storage.PostgresStore
	zone *time.Location
}

func NewReportsHandler(db *storage.PostgresStore, zone *time.Location) *ReportsHandler {
	return &ReportsHandler{db: db, zone: zone}
}

func yearMonth(c *gin.Context) (int, int, bool) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, month, true
}

// MonthlySummary handles GET /v1/reports/attendance: one employee's month,
// day by day.
func (h *ReportsHandler) MonthlySummary(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Query("employee_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id required"})
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	emp, err := h.db.GetEmployee(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	days, err := h.db.MonthAttendance(c.Request.Context(), employeeID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	attended := make(map[string]payroll.Attended, len(days))
	for _, d := range days {
		attended[payroll.DayKey(d.Day)] = payroll.Attended{CheckIn: d.CheckIn, CheckOut: d.CheckOut}
	}

	summary := payroll.BuildSummary(year, month, h.zone, time.Now(), attended)

	resp := dto.MonthlySummaryResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Year:         summary.Year,
		Month:        summary.Month,
		WorkingDays:  summary.WorkingDays,
		PresentDays:  summary.Present,
		PartialDays:  summary.Partial,
		AbsentDays:   summary.Absent,
	}
	for _, d := range summary.Days {
		ds := dto.DaySummary{Date: d.Date.Format("2006-01-02"), Status: string(d.Status)}
		if d.CheckIn != nil {
			ds.CheckIn = d.CheckIn.In(h.zone).Format("15:04:05")
		}
		if d.CheckOut != nil {
			ds.CheckOut = d.CheckOut.In(h.zone).Format("15:04:05")
		}
		resp.Days = append(resp.Days, ds)
	}
	c.JSON(http.StatusOK, resp)
}

// Payroll handles GET /v1/reports/payroll: the month's stored records,
// optionally scoped to one location.
func (h *ReportsHandler) Payroll(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	var locationID *uuid.UUID
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location_id"})
			return
		}
		locationID = &id
	}

	records, err := h.db.ListPayrollRecords(c.Request.Context(), locationID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.PayrollResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, dto.PayrollResponse{
			EmployeeID:     r.EmployeeID,
			Year:           r.Year,
			Month:          r.Month,
			WorkingDays:    r.WorkingDays,
			PresentDays:    r.PresentDays,
			AbsentDays:     r.AbsentDays,
			BaseSalary:     r.BaseSalary,
			TotalDeduction: r.TotalDeduction,
			NetSalary:      r.NetSalary,
			ComputedAt:     r.ComputedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"payroll": resp, "year": year, "month": month})
}

// EmployeePayroll handles GET /v1/reports/payroll/:employeeId: computed on
// demand from events, so the figure is current even before the worker has
// caught up.
func (h *ReportsHandler) EmployeePayroll(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("employeeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	emp, err := h.db.GetEmployee(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	present, err := h.db.PresentDays(c.Request.Context(), employeeID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	workingDays := len(payroll.MonthDays(year, month, h.zone, time.Now()))
	absent := workingDays - present
	if absent < 0 {
		absent = 0
	}
	figures := payroll.Compute(emp.BaseSalary, emp.DeductionPerDay, absent)

	c.JSON(http.StatusOK, dto.PayrollResponse{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.Name,
		Year:           year,
		Month:          month,
		WorkingDays:    workingDays,
		PresentDays:    present,
		AbsentDays:     absent,
		BaseSalary:     figures.BaseSalary,
		TotalDeduction: figures.TotalDeduction,
		NetSalary:      figures.NetSalary,
		ComputedAt:     time.Now().Format(time.RFC3339),
	})
}
