package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corehr/hrm-backend/internal/domain"
)

// AdminStats runs the four independent counts concurrently and joins them;
// none depends on another's result.
func (r *Repository) AdminStats(date time.Time) (*domain.AdminStats, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	stats := &domain.AdminStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `SELECT COUNT(*) FROM users WHERE status = 'active'`
		return r.dbpool.QueryRowContext(gctx, query).Scan(&stats.TotalEmployees)
	})
	g.Go(func() error {
		query := `SELECT COUNT(*) FROM attendance WHERE date = $1 AND status IN ('present', 'late')`
		return r.dbpool.QueryRowContext(gctx, query, date).Scan(&stats.PresentToday)
	})
	g.Go(func() error {
		query := `SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'`
		return r.dbpool.QueryRowContext(gctx, query).Scan(&stats.PendingLeaves)
	})
	g.Go(func() error {
		query := `SELECT COUNT(DISTINCT department) FROM employee_profiles WHERE department IS NOT NULL`
		return r.dbpool.QueryRowContext(gctx, query).Scan(&stats.TotalDepartments)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *Repository) EmployeeStats(userID int64, date time.Time) (*domain.EmployeeStats, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	stats := &domain.EmployeeStats{TodayStatus: "not-checked-in"}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `SELECT status, check_in, check_out FROM attendance WHERE user_id = $1 AND date = $2`
		var status string
		err := r.dbpool.QueryRowContext(gctx, query, userID, date).Scan(&status, &stats.CheckIn, &stats.CheckOut)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		stats.TodayStatus = status
		return nil
	})
	g.Go(func() error {
		query := `SELECT COUNT(*) FROM leave_requests WHERE user_id = $1 AND status = 'pending'`
		return r.dbpool.QueryRowContext(gctx, query, userID).Scan(&stats.PendingLeaves)
	})
	g.Go(func() error {
		query := `SELECT net_salary FROM payroll WHERE user_id = $1 ORDER BY year DESC, month DESC LIMIT 1`
		err := r.dbpool.QueryRowContext(gctx, query, userID).Scan(&stats.LastSalary)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats, nil
}

// RecentActivity merges the most recent leave events with today's attendance
// events, newest first, truncated to limit.
func (r *Repository) RecentActivity(date time.Time, limit int) ([]domain.Activity, error) {
	ctx, cancel := r.queryContext()
	defer cancel()

	activities := make([]domain.Activity, 0, 2*limit)

	leaveQuery := `
		SELECT id, user_name, type, status, created_at
		FROM leave_requests
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.dbpool.QueryContext(ctx, leaveQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        int64
			userName  string
			leaveType string
			status    string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &userName, &leaveType, &status, &createdAt); err != nil {
			return nil, err
		}

		verb := status
		if status == string(domain.LeavePending) {
			verb = "applied for"
		}
		activities = append(activities, domain.Activity{
			ID:        id,
			Type:      "leave",
			Message:   fmt.Sprintf("%s %s %s leave", userName, verb, leaveType),
			Timestamp: createdAt,
			Status:    status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attendanceQuery := `
		SELECT a.id, ep.first_name, ep.last_name, a.status, a.check_in, a.created_at
		FROM attendance a
		JOIN employee_profiles ep ON ep.user_id = a.user_id
		WHERE a.date = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`

	attRows, err := r.dbpool.QueryContext(ctx, attendanceQuery, date, limit)
	if err != nil {
		return nil, err
	}
	defer attRows.Close()

	for attRows.Next() {
		var (
			id        int64
			firstName string
			lastName  string
			status    string
			checkIn   *time.Time
			createdAt time.Time
		)
		if err := attRows.Scan(&id, &firstName, &lastName, &status, &checkIn, &createdAt); err != nil {
			return nil, err
		}

		checkInLabel := ""
		if checkIn != nil {
			checkInLabel = checkIn.Format("15:04:05")
		}
		activities = append(activities, domain.Activity{
			ID:        id,
			Type:      "attendance",
			Message:   fmt.Sprintf("%s %s checked in at %s", firstName, lastName, checkInLabel),
			Timestamp: createdAt,
			Status:    status,
		})
	}
	if err := attRows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}

	return activities, nil
}

func (r *Repository) DepartmentStats(date time.Time) ([]domain.DepartmentStats, error) {
	query := `
		SELECT
			ep.department,
			COUNT(*) AS employee_count,
			COUNT(a.id) FILTER (WHERE a.status IN ('present', 'late')) AS present_today
		FROM employee_profiles ep
		JOIN users u ON u.id = ep.user_id
		LEFT JOIN attendance a ON a.user_id = ep.user_id AND a.date = $1
		WHERE u.status = 'active' AND ep.department IS NOT NULL
		GROUP BY ep.department
		ORDER BY employee_count DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]domain.DepartmentStats, 0)
	for rows.Next() {
		var s domain.DepartmentStats
		if err := rows.Scan(&s.Department, &s.EmployeeCount, &s.PresentToday); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
