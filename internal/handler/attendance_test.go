package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/corehr/hrm-backend/internal/domain"
)

func withUser(req *http.Request, user *domain.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), UserCtxKey, user))
}

func testEmployee(id int64) *domain.User {
	return &domain.User{ID: id, EmployeeID: "EMP0001", Role: domain.RoleEmployee, Status: domain.UserStatusActive}
}

func TestCheckIn(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("INSERT INTO attendance").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	req := withUser(httptest.NewRequest(http.MethodPost, "/attendance/check-in", nil), testEmployee(1))
	rec := httptest.NewRecorder()
	h.CheckIn(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if resp := decodeResponse(t, rec); !resp.Success {
		t.Errorf("Success = false, message %q", resp.Message)
	}
}

func TestCheckInDuplicate(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("INSERT INTO attendance").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendance_user_id_date_key"})

	req := withUser(httptest.NewRequest(http.MethodPost, "/attendance/check-in", nil), testEmployee(1))
	rec := httptest.NewRecorder()
	h.CheckIn(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Already checked in today" {
		t.Errorf("Message = %q, want %q", resp.Message, "Already checked in today")
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("FROM attendance WHERE user_id").
		WillReturnError(sql.ErrNoRows)

	req := withUser(httptest.NewRequest(http.MethodPost, "/attendance/check-out", nil), testEmployee(1))
	rec := httptest.NewRecorder()
	h.CheckOut(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "No check-in record found for today" {
		t.Errorf("Message = %q, want %q", resp.Message, "No check-in record found for today")
	}
}

func TestCheckOutTwice(t *testing.T) {
	h, mock := newTestHandler(t)

	now := time.Now()
	checkIn := now.Add(-8 * time.Hour)
	checkOut := now.Add(-time.Minute)
	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "check_in", "check_out", "status", "work_hours", "notes", "created_at"}).
		AddRow(int64(1), int64(1), now, checkIn, checkOut, "present", 8.0, nil, now)

	mock.ExpectQuery("FROM attendance WHERE user_id").
		WillReturnRows(rows)

	req := withUser(httptest.NewRequest(http.MethodPost, "/attendance/check-out", nil), testEmployee(1))
	rec := httptest.NewRecorder()
	h.CheckOut(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Already checked out today" {
		t.Errorf("Message = %q, want %q", resp.Message, "Already checked out today")
	}
}

func TestTodayAttendanceNoRecord(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("FROM attendance WHERE user_id").
		WillReturnError(sql.ErrNoRows)

	req := withUser(httptest.NewRequest(http.MethodGet, "/attendance/today", nil), testEmployee(1))
	rec := httptest.NewRecorder()
	h.TodayAttendance(rec, req)

	// an empty day is not an error
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Data != nil {
		t.Errorf("Data = %v, want nil", resp.Data)
	}
}
