package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/corehr/hrm-backend/internal/domain"
)

func TestHasOverlappingLeave(t *testing.T) {
	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		exists bool
	}{
		{"overlap found", true},
		{"no overlap", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)

			mock.ExpectQuery("SELECT EXISTS").
				WithArgs(int64(1), start, end).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			got, err := repo.HasOverlappingLeave(1, start, end)
			if err != nil {
				t.Fatalf("HasOverlappingLeave() error = %v", err)
			}
			if got != tt.exists {
				t.Errorf("HasOverlappingLeave() = %v, want %v", got, tt.exists)
			}

			expectationsMet(t, mock)
		})
	}
}

func TestReviewLeaveRequest(t *testing.T) {
	repo, mock := newTestRepository(t)

	comment := "enjoy your trip"
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "type", "start_date", "end_date", "reason",
		"status", "admin_comment", "reviewed_by", "reviewed_at", "created_at",
	}).AddRow(
		int64(3), int64(1), "Jane Doe", "paid", now, now.AddDate(0, 0, 2), "Family vacation",
		"approved", comment, int64(9), now, now,
	)

	mock.ExpectQuery("UPDATE leave_requests").
		WithArgs(domain.LeaveApproved, &comment, int64(9), int64(3)).
		WillReturnRows(rows)

	reviewed, err := repo.ReviewLeaveRequest(3, domain.LeaveApproved, &comment, 9)
	if err != nil {
		t.Fatalf("ReviewLeaveRequest() error = %v", err)
	}
	if reviewed.Status != domain.LeaveApproved {
		t.Errorf("Status = %v, want approved", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != 9 {
		t.Errorf("ReviewedBy = %v, want 9", reviewed.ReviewedBy)
	}

	expectationsMet(t, mock)
}

// a request that was already reviewed no longer matches the pending
// predicate, so the update affects no rows
func TestReviewLeaveRequestAlreadyReviewed(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("UPDATE leave_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ReviewLeaveRequest(3, domain.LeaveRejected, nil, 9)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReviewLeaveRequest() error = %v, want sql.ErrNoRows", err)
	}

	expectationsMet(t, mock)
}

func TestDeleteLeaveRequestNotPending(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("DELETE FROM leave_requests").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.DeleteLeaveRequest(4)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeleteLeaveRequest() error = %v, want sql.ErrNoRows", err)
	}

	expectationsMet(t, mock)
}

func TestLeaveUsage(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM leave_requests").
		WithArgs(int64(1), 2026).
		WillReturnRows(sqlmock.NewRows([]string{"used_paid", "used_sick"}).AddRow(5, 2))

	usedPaid, usedSick, err := repo.LeaveUsage(1, 2026)
	if err != nil {
		t.Fatalf("LeaveUsage() error = %v", err)
	}
	if usedPaid != 5 || usedSick != 2 {
		t.Errorf("LeaveUsage() = (%d, %d), want (5, 2)", usedPaid, usedSick)
	}

	expectationsMet(t, mock)
}
