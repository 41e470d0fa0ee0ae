package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/corehr/hrm-backend/internal/domain"
)

// HasOverlappingLeave reports whether any non-rejected request for the user
// intersects [start, end]: new start inside an existing range, new end inside
// one, or the new range containing one. Approved and still-pending requests
// both block.
func (r *Repository) HasOverlappingLeave(userID int64, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE user_id = $1
				AND status != 'rejected'
				AND (
					(start_date <= $2 AND end_date >= $2) OR
					(start_date <= $3 AND end_date >= $3) OR
					(start_date >= $2 AND end_date <= $3)
				)
		)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	exists := false
	if err := r.dbpool.QueryRowContext(ctx, query, userID, start, end).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) CreateLeaveRequest(req *domain.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (user_id, user_name, type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, status, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{req.UserID, req.UserName, req.Type, req.StartDate, req.EndDate, req.Reason}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.Status, &req.CreatedAt); err != nil {
		return err
	}

	return nil
}

const leaveColumns = `
	lr.id, lr.user_id, lr.user_name, lr.type, lr.start_date, lr.end_date, lr.reason,
	lr.status, lr.admin_comment, lr.reviewed_by, lr.reviewed_at, lr.created_at
`

func scanLeaveRequest(row interface{ Scan(...any) error }, withProfile bool) (*domain.LeaveRequest, error) {
	req := &domain.LeaveRequest{}
	dst := []any{
		&req.ID, &req.UserID, &req.UserName, &req.Type, &req.StartDate, &req.EndDate, &req.Reason,
		&req.Status, &req.AdminComment, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
	}
	if withProfile {
		dst = append(dst, &req.EmployeeName, &req.Department)
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *Repository) GetLeaveRequestByID(id int64) (*domain.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `,
			COALESCE(ep.first_name || ' ' || ep.last_name, lr.user_name) AS employee_name,
			ep.department
		FROM leave_requests lr
		LEFT JOIN employee_profiles ep ON ep.user_id = lr.user_id
		WHERE lr.id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanLeaveRequest(r.dbpool.QueryRowContext(ctx, query, id), true)
}

type LeaveFilter struct {
	UserID    *int64
	Status    *domain.LeaveStatus
	Type      *domain.LeaveType
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

func (r *Repository) ListLeaveRequests(f LeaveFilter) ([]*domain.LeaveRequest, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("lr.user_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("lr.status = $%d", len(args)))
	}
	if f.Type != nil {
		args = append(args, *f.Type)
		where = append(where, fmt.Sprintf("lr.type = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where = append(where, fmt.Sprintf("lr.start_date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where = append(where, fmt.Sprintf("lr.end_date <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	ctx, cancel := r.queryContext()
	defer cancel()

	countQuery := `SELECT COUNT(*) FROM leave_requests lr WHERE ` + whereClause

	totalCount := 0
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := `
		SELECT ` + leaveColumns + `,
			COALESCE(ep.first_name || ' ' || ep.last_name, lr.user_name) AS employee_name,
			ep.department
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		LEFT JOIN employee_profiles ep ON ep.user_id = lr.user_id
		WHERE ` + whereClause + `
		ORDER BY lr.created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]*domain.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows, true)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, totalCount, nil
}

// ReviewLeaveRequest moves a request out of pending. The status predicate
// keeps the transition single-shot: a request already reviewed by a
// concurrent admin yields sql.ErrNoRows.
func (r *Repository) ReviewLeaveRequest(id int64, status domain.LeaveStatus, comment *string, reviewerID int64) (*domain.LeaveRequest, error) {
	query := `
		UPDATE leave_requests lr
		SET status = $1, admin_comment = $2, reviewed_by = $3, reviewed_at = now(), updated_at = now()
		WHERE id = $4 AND status = 'pending'
		RETURNING ` + leaveColumns

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanLeaveRequest(r.dbpool.QueryRowContext(ctx, query, status, comment, reviewerID, id), false)
}

// DeleteLeaveRequest is the employee cancellation: a physical delete, legal
// only while pending.
func (r *Repository) DeleteLeaveRequest(id int64) error {
	query := `
		DELETE FROM leave_requests WHERE id = $1 AND status = 'pending'
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var deleted int64
	return r.dbpool.QueryRowContext(ctx, query, id).Scan(&deleted)
}

// LeaveUsage counts approved requests per type for the year, attributed by
// the request's start-date year.
func (r *Repository) LeaveUsage(userID int64, year int) (usedPaid, usedSick int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE type = 'paid' AND status = 'approved') AS used_paid,
			COUNT(*) FILTER (WHERE type = 'sick' AND status = 'approved') AS used_sick
		FROM leave_requests
		WHERE user_id = $1 AND EXTRACT(YEAR FROM start_date) = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, userID, year).Scan(&usedPaid, &usedSick); err != nil {
		return 0, 0, err
	}

	return usedPaid, usedSick, nil
}

func (r *Repository) PendingLeaveCount() (int, error) {
	query := `
		SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	count := 0
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
