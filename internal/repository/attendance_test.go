package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/corehr/hrm-backend/internal/domain"
)

// the UNIQUE(user_id, date) violation must reach the caller untranslated so
// the handler can map it to the duplicate-check-in message
func TestCreateCheckInDuplicate(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("INSERT INTO attendance").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendance_user_id_date_key"})

	now := time.Now()
	rec := &domain.AttendanceRecord{
		UserID:  1,
		Date:    now,
		CheckIn: &now,
		Status:  domain.AttendancePresent,
	}

	err := repo.CreateCheckIn(rec)
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		t.Errorf("CreateCheckIn() error = %v, want unique violation", err)
	}

	expectationsMet(t, mock)
}

func TestCompleteCheckOut(t *testing.T) {
	repo, mock := newTestRepository(t)

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "date", "check_in", "check_out", "status", "work_hours", "notes", "created_at",
	}).AddRow(int64(7), int64(1), checkIn, checkIn, checkOut, "present", 8.0, nil, checkIn)

	mock.ExpectQuery("UPDATE attendance").
		WithArgs(checkOut, 8.0, domain.AttendancePresent, nil, int64(7)).
		WillReturnRows(rows)

	rec, err := repo.CompleteCheckOut(7, checkOut, 8.0, domain.AttendancePresent, nil)
	if err != nil {
		t.Fatalf("CompleteCheckOut() error = %v", err)
	}
	if rec.CheckOut == nil || !rec.CheckOut.Equal(checkOut) {
		t.Errorf("CheckOut = %v, want %v", rec.CheckOut, checkOut)
	}
	if rec.WorkHours == nil || *rec.WorkHours != 8.0 {
		t.Errorf("WorkHours = %v, want 8.0", rec.WorkHours)
	}

	expectationsMet(t, mock)
}

// the check_out IS NULL predicate means a second checkout matches no rows
func TestCompleteCheckOutAlreadyCheckedOut(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("UPDATE attendance").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.CompleteCheckOut(7, time.Now(), 8.0, domain.AttendancePresent, nil)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("CompleteCheckOut() error = %v, want sql.ErrNoRows", err)
	}

	expectationsMet(t, mock)
}

func TestWeeklySummary(t *testing.T) {
	repo, mock := newTestRepository(t)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"present_days", "late_days", "absent_days", "half_days", "total_hours"}).
		AddRow(4, 1, 0, 1, 38.5)

	mock.ExpectQuery("FROM attendance").
		WithArgs(int64(1), from).
		WillReturnRows(rows)

	summary, err := repo.WeeklySummary(1, from)
	if err != nil {
		t.Fatalf("WeeklySummary() error = %v", err)
	}
	if summary.PresentDays != 4 || summary.LateDays != 1 || summary.HalfDays != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.TotalHours != 38.5 {
		t.Errorf("TotalHours = %v, want 38.5", summary.TotalHours)
	}

	expectationsMet(t, mock)
}
