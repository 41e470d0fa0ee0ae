package domain

import (
	"math"
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half-day"
	AttendanceWeekend AttendanceStatus = "weekend"
	AttendanceHoliday AttendanceStatus = "holiday"
)

type AttendanceRecord struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	Date      time.Time        `json:"date"`
	CheckIn   *time.Time       `json:"checkIn"`
	CheckOut  *time.Time       `json:"checkOut"`
	Status    AttendanceStatus `json:"status"`
	WorkHours *float64         `json:"workHours"`
	Notes     *string          `json:"notes"`
	UserName  string           `json:"userName,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type WeeklySummary struct {
	PresentDays int     `json:"presentDays"`
	LateDays    int     `json:"lateDays"`
	AbsentDays  int     `json:"absentDays"`
	HalfDays    int     `json:"halfDays"`
	TotalHours  float64 `json:"totalHours"`
}

// CheckInStatus derives the morning status from the check-in clock time.
// lateAfter is a local "HH:MM" threshold; a malformed threshold falls back
// to 09:30.
func CheckInStatus(checkIn time.Time, lateAfter string) AttendanceStatus {
	threshold, err := time.Parse("15:04", lateAfter)
	if err != nil {
		threshold, _ = time.Parse("15:04", "09:30")
	}

	cutoff := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), threshold.Hour(), threshold.Minute(), 0, 0, checkIn.Location())
	if checkIn.After(cutoff) {
		return AttendanceLate
	}
	return AttendancePresent
}

// WorkHours returns the fractional hours between check-in and check-out,
// rounded to two decimals.
func WorkHours(checkIn, checkOut time.Time) float64 {
	return math.Round(checkOut.Sub(checkIn).Hours()*100) / 100
}

// CheckOutStatus overrides the morning status with half-day when the worked
// hours fall below the threshold, regardless of the late/present determination.
func CheckOutStatus(current AttendanceStatus, workHours, halfDayBelow float64) AttendanceStatus {
	if workHours < halfDayBelow {
		return AttendanceHalfDay
	}
	return current
}
