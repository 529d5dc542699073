// Package payroll turns attendance events into monthly summaries and
// salary figures. All functions are pure; persistence stays in storage.
package payroll

import (
	"math"
	"time"
)

// DayStatus classifies one local calendar day.
type DayStatus string

const (
	// Present: checked in and out.
	Present DayStatus = "present"
	// Partial: checked in but never out.
	Partial DayStatus = "partial"
	// Absent: no check-in at all.
	Absent DayStatus = "absent"
)

// Day is one day of a monthly summary.
type Day struct {
	Date     time.Time
	Status   DayStatus
	CheckIn  *time.Time
	CheckOut *time.Time
}

// Summary is an employee's month at a glance.
type Summary struct {
	Year        int
	Month       int
	WorkingDays int
	Present     int
	Partial     int
	Absent      int
	Days        []Day
}

// Figures is the salary computation for one month.
type Figures struct {
	BaseSalary      float64
	DeductionPerDay float64
	AbsentDays      int
	TotalDeduction  float64
	NetSalary       float64
}

// DaysInMonth returns the number of calendar days in (year, month).
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays iterates every midnight of (year, month) in zone. Days past
// asOf are excluded so a mid-month summary does not count the future as
// absence.
func MonthDays(year, month int, zone *time.Location, asOf time.Time) []time.Time {
	var days []time.Time
	n := DaysInMonth(year, month)
	limit := asOf.In(zone)
	for d := 1; d <= n; d++ {
		day := time.Date(year, time.Month(month), d, 0, 0, 0, 0, zone)
		if day.After(limit) {
			break
		}
		days = append(days, day)
	}
	return days
}

// Attended maps a local day (midnight in zone) to its recorded first
// check-in / last check-out, as loaded from storage.
type Attended struct {
	CheckIn  *time.Time
	CheckOut *time.Time
}

// BuildSummary walks the month day by day and classifies each one.
func BuildSummary(year, month int, zone *time.Location, asOf time.Time, attended map[string]Attended) Summary {
	s := Summary{Year: year, Month: month}
	for _, day := range MonthDays(year, month, zone, asOf) {
		d := Day{Date: day, Status: Absent}
		if a, ok := attended[DayKey(day)]; ok && a.CheckIn != nil {
			d.CheckIn = a.CheckIn
			d.CheckOut = a.CheckOut
			if a.CheckOut != nil {
				d.Status = Present
			} else {
				d.Status = Partial
			}
		}
		switch d.Status {
		case Present:
			s.Present++
		case Partial:
			s.Partial++
		default:
			s.Absent++
		}
		s.WorkingDays++
		s.Days = append(s.Days, d)
	}
	return s
}

// DayKey formats a day for map lookup, zone-independent once the day has
// been bucketed.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// Compute derives the month's salary: one deduction per absent day, never
// going below zero. Partial days count as present for pay purposes; the
// missed check-out is a discipline issue, not a wage one.
func Compute(baseSalary, deductionPerDay float64, absentDays int) Figures {
	total := deductionPerDay * float64(absentDays)
	net := baseSalary - total
	if net < 0 {
		net = 0
	}
	return Figures{
		BaseSalary:      round2(baseSalary),
		DeductionPerDay: deductionPerDay,
		AbsentDays:      absentDays,
		TotalDeduction:  round2(total),
		NetSalary:       round2(net),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
