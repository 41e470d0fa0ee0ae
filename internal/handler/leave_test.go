package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/corehr/hrm-backend/internal/domain"
)

func withLeave(req *http.Request, leave *domain.LeaveRequest) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), LeaveRequestCtx, leave))
}

func TestApplyLeaveInvalidDateOrder(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"type":"paid","startDate":"2026-09-10","endDate":"2026-09-08","reason":"trip"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/leave/", strings.NewReader(body)), testEmployee(1))
	rec := httptest.NewRecorder()
	h.ApplyLeave(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "endDate" {
		t.Errorf("Errors = %v, want a single endDate error", resp.Errors)
	}
}

func TestApplyLeaveOverlap(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	body := `{"type":"paid","startDate":"2026-09-08","endDate":"2026-09-10","reason":"trip"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/leave/", strings.NewReader(body)), testEmployee(1))
	rec := httptest.NewRecorder()
	h.ApplyLeave(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "You already have a leave request for this period" {
		t.Errorf("Message = %q, want the overlap error", resp.Message)
	}
}

func TestGetLeaveOtherEmployee(t *testing.T) {
	h, _ := newTestHandler(t)

	leave := &domain.LeaveRequest{ID: 3, UserID: 2, Status: domain.LeavePending}
	req := withLeave(withUser(httptest.NewRequest(http.MethodGet, "/leave/3", nil), testEmployee(1)), leave)
	rec := httptest.NewRecorder()
	h.GetLeave(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCancelLeaveNotOwner(t *testing.T) {
	h, _ := newTestHandler(t)

	leave := &domain.LeaveRequest{ID: 3, UserID: 2, Status: domain.LeavePending}
	req := withLeave(withUser(httptest.NewRequest(http.MethodDelete, "/leave/3", nil), testEmployee(1)), leave)
	rec := httptest.NewRecorder()
	h.CancelLeave(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Access denied" {
		t.Errorf("Message = %q, want %q", resp.Message, "Access denied")
	}
}

func TestCancelLeaveAlreadyReviewed(t *testing.T) {
	h, _ := newTestHandler(t)

	leave := &domain.LeaveRequest{ID: 3, UserID: 1, Status: domain.LeaveApproved}
	req := withLeave(withUser(httptest.NewRequest(http.MethodDelete, "/leave/3", nil), testEmployee(1)), leave)
	rec := httptest.NewRecorder()
	h.CancelLeave(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Only pending leave requests can be cancelled" {
		t.Errorf("Message = %q, want the pending-only error", resp.Message)
	}
}

func TestCancelLeavePending(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("DELETE FROM leave_requests").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	leave := &domain.LeaveRequest{ID: 3, UserID: 1, Status: domain.LeavePending}
	req := withLeave(withUser(httptest.NewRequest(http.MethodDelete, "/leave/3", nil), testEmployee(1)), leave)
	rec := httptest.NewRecorder()
	h.CancelLeave(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestUpdateLeaveStatusInvalidStatus(t *testing.T) {
	h, _ := newTestHandler(t)

	admin := &domain.User{ID: 9, Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	leave := &domain.LeaveRequest{ID: 3, UserID: 1, Status: domain.LeavePending}

	body := `{"status":"pending"}`
	req := withLeave(withUser(httptest.NewRequest(http.MethodPut, "/leave/3/status", strings.NewReader(body)), admin), leave)
	rec := httptest.NewRecorder()
	h.UpdateLeaveStatus(rec, req)

	// pending is not a valid review outcome
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateLeaveStatusConcurrentReview(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("UPDATE leave_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	admin := &domain.User{ID: 9, Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	leave := &domain.LeaveRequest{ID: 3, UserID: 1, Status: domain.LeavePending}

	body := `{"status":"approved"}`
	req := withLeave(withUser(httptest.NewRequest(http.MethodPut, "/leave/3/status", strings.NewReader(body)), admin), leave)
	rec := httptest.NewRecorder()
	h.UpdateLeaveStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Leave request has already been reviewed" {
		t.Errorf("Message = %q, want the already-reviewed error", resp.Message)
	}
}

func TestLeaveBalance(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("FROM leave_requests").
		WithArgs(int64(1), time.Now().Year()).
		WillReturnRows(sqlmock.NewRows([]string{"used_paid", "used_sick"}).AddRow(4, 1))

	req := withUser(httptest.NewRequest(http.MethodGet, "/leave/balance", nil), testEmployee(1))
	rec := httptest.NewRecorder()
	h.LeaveBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %T, want object", resp.Data)
	}
	paid, ok := data["paidLeave"].(map[string]any)
	if !ok {
		t.Fatalf("paidLeave missing in %v", data)
	}
	if paid["remaining"].(float64) != 16 {
		t.Errorf("paidLeave.remaining = %v, want 16", paid["remaining"])
	}
}
