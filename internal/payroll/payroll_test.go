package payroll

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month int
		want  int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthDaysCutsOffAtAsOf(t *testing.T) {
	zone, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}

	// Mid-month: only the elapsed days count.
	asOf := time.Date(2024, 3, 15, 10, 0, 0, 0, zone)
	days := MonthDays(2024, 3, zone, asOf)
	if len(days) != 15 {
		t.Errorf("mid-month: %d days, want 15", len(days))
	}

	// A past month is complete.
	asOf = time.Date(2024, 4, 1, 0, 0, 0, 0, zone)
	days = MonthDays(2024, 3, zone, asOf)
	if len(days) != 31 {
		t.Errorf("past month: %d days, want 31", len(days))
	}

	// A future month has no days yet.
	asOf = time.Date(2024, 2, 1, 0, 0, 0, 0, zone)
	days = MonthDays(2024, 3, zone, asOf)
	if len(days) != 0 {
		t.Errorf("future month: %d days, want 0", len(days))
	}
}

func TestBuildSummary(t *testing.T) {
	zone, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}

	asOf := time.Date(2024, 3, 4, 18, 0, 0, 0, zone)
	in1 := time.Date(2024, 3, 1, 9, 0, 0, 0, zone)
	out1 := time.Date(2024, 3, 1, 18, 0, 0, 0, zone)
	in3 := time.Date(2024, 3, 3, 9, 30, 0, 0, zone)

	attended := map[string]Attended{
		"2024-03-01": {CheckIn: &in1, CheckOut: &out1},
		"2024-03-03": {CheckIn: &in3}, // never checked out
	}

	s := BuildSummary(2024, 3, zone, asOf, attended)

	if s.WorkingDays != 4 {
		t.Fatalf("working days = %d, want 4", s.WorkingDays)
	}
	if s.Present != 1 || s.Partial != 1 || s.Absent != 2 {
		t.Errorf("present=%d partial=%d absent=%d, want 1/1/2", s.Present, s.Partial, s.Absent)
	}

	wantStatus := []DayStatus{Present, Absent, Partial, Absent}
	for i, day := range s.Days {
		if day.Status != wantStatus[i] {
			t.Errorf("day %d status = %s, want %s", i+1, day.Status, wantStatus[i])
		}
	}
}

func TestBuildSummaryIgnoresOrphanCheckOut(t *testing.T) {
	zone := time.UTC
	asOf := time.Date(2024, 3, 2, 0, 0, 0, 0, zone)
	out := time.Date(2024, 3, 1, 18, 0, 0, 0, zone)

	s := BuildSummary(2024, 3, zone, asOf, map[string]Attended{
		"2024-03-01": {CheckOut: &out}, // no check-in recorded
	})
	if s.Days[0].Status != Absent {
		t.Errorf("check-out without check-in = %s, want %s", s.Days[0].Status, Absent)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		base          float64
		perDay        float64
		absent        int
		wantDeduction float64
		wantNet       float64
	}{
		{"no absences", 30000, 1000, 0, 0, 30000},
		{"three absences", 30000, 1000, 3, 3000, 27000},
		{"net floors at zero", 5000, 1000, 10, 10000, 0},
		{"fractional deduction", 30000, 333.33, 3, 999.99, 29000.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Compute(tt.base, tt.perDay, tt.absent)
			if f.TotalDeduction != tt.wantDeduction {
				t.Errorf("total deduction = %v, want %v", f.TotalDeduction, tt.wantDeduction)
			}
			if f.NetSalary != tt.wantNet {
				t.Errorf("net salary = %v, want %v", f.NetSalary, tt.wantNet)
			}
		})
	}
}

func TestDayKey(t *testing.T) {
	zone, _ := time.LoadLocation("Asia/Kolkata")
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, zone)
	if got := DayKey(day); got != "2024-03-05" {
		t.Errorf("DayKey = %q, want %q", got, "2024-03-05")
	}
}
