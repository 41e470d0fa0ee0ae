package domain

import (
	"testing"
	"time"
)

func clock(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestCheckInStatus(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   time.Time
		lateAfter string
		want      AttendanceStatus
	}{
		{"before threshold", clock(8, 55), "09:30", AttendancePresent},
		{"exactly at threshold", clock(9, 30), "09:30", AttendancePresent},
		{"one minute late", clock(9, 31), "09:30", AttendanceLate},
		{"well past threshold", clock(11, 0), "09:30", AttendanceLate},
		{"custom threshold", clock(9, 31), "10:00", AttendancePresent},
		{"malformed threshold falls back", clock(9, 45), "banana", AttendanceLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckInStatus(tt.checkIn, tt.lateAfter); got != tt.want {
				t.Errorf("CheckInStatus(%v, %q) = %v, want %v", tt.checkIn, tt.lateAfter, got, tt.want)
			}
		})
	}
}

func TestWorkHours(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     float64
	}{
		{"full day", clock(9, 0), clock(17, 30), 8.5},
		{"rounds to two decimals", clock(9, 0), clock(17, 10), 8.17},
		{"short day", clock(9, 0), clock(11, 45), 2.75},
		{"zero", clock(9, 0), clock(9, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkHours(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("WorkHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckOutStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   AttendanceStatus
		workHours float64
		want      AttendanceStatus
	}{
		{"keeps present on a full day", AttendancePresent, 8, AttendancePresent},
		{"keeps late on a full day", AttendanceLate, 7.5, AttendanceLate},
		{"short day becomes half-day", AttendancePresent, 3.99, AttendanceHalfDay},
		{"half-day overrides late", AttendanceLate, 2.75, AttendanceHalfDay},
		{"exactly at threshold keeps status", AttendancePresent, 4, AttendancePresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckOutStatus(tt.current, tt.workHours, 4); got != tt.want {
				t.Errorf("CheckOutStatus(%v, %v, 4) = %v, want %v", tt.current, tt.workHours, got, tt.want)
			}
		})
	}
}
