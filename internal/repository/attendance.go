package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/corehr/hrm-backend/internal/domain"
)

// CreateCheckIn inserts the day's record. The UNIQUE(user_id, date)
// constraint is the duplicate-check-in guard; a concurrent insert surfaces
// as a unique violation for the caller to translate.
func (r *Repository) CreateCheckIn(rec *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (user_id, date, check_in, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{rec.UserID, rec.Date, rec.CheckIn, rec.Status, rec.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTodayAttendance(userID int64, date time.Time) (*domain.AttendanceRecord, error) {
	query := `
		SELECT id, user_id, date, check_in, check_out, status, work_hours, notes, created_at
		FROM attendance WHERE user_id = $1 AND date = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rec := &domain.AttendanceRecord{}
	dst := []any{&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status, &rec.WorkHours, &rec.Notes, &rec.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(dst...); err != nil {
		return nil, err
	}

	return rec, nil
}

// CompleteCheckOut fills in the checkout half of the record. The check_out
// IS NULL predicate makes the write conditional, so two concurrent checkouts
// cannot both succeed; the loser gets sql.ErrNoRows.
func (r *Repository) CompleteCheckOut(id int64, checkOut time.Time, workHours float64, status domain.AttendanceStatus, notes *string) (*domain.AttendanceRecord, error) {
	query := `
		UPDATE attendance
		SET check_out = $1, work_hours = $2, status = $3, notes = COALESCE($4, notes), updated_at = now()
		WHERE id = $5 AND check_out IS NULL
		RETURNING id, user_id, date, check_in, check_out, status, work_hours, notes, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rec := &domain.AttendanceRecord{}
	args := []any{checkOut, workHours, status, notes, id}
	dst := []any{&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status, &rec.WorkHours, &rec.Notes, &rec.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return nil, err
	}

	return rec, nil
}

type UpdateAttendanceParams struct {
	Status   *domain.AttendanceStatus
	CheckIn  *time.Time
	CheckOut *time.Time
	Notes    *string
}

// UpdateAttendance is the admin correction path: each supplied field
// overwrites, each nil field keeps its stored value.
func (r *Repository) UpdateAttendance(id int64, p UpdateAttendanceParams) (*domain.AttendanceRecord, error) {
	query := `
		UPDATE attendance
		SET status = COALESCE($1, status),
			check_in = COALESCE($2, check_in),
			check_out = COALESCE($3, check_out),
			notes = COALESCE($4, notes),
			updated_at = now()
		WHERE id = $5
		RETURNING id, user_id, date, check_in, check_out, status, work_hours, notes, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rec := &domain.AttendanceRecord{}
	args := []any{p.Status, p.CheckIn, p.CheckOut, p.Notes, id}
	dst := []any{&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status, &rec.WorkHours, &rec.Notes, &rec.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return nil, err
	}

	return rec, nil
}

type AttendanceFilter struct {
	UserID    *int64
	StartDate *time.Time
	EndDate   *time.Time
	Status    *domain.AttendanceStatus
	Page      int
	Limit     int
}

func (r *Repository) ListAttendance(f AttendanceFilter) ([]*domain.AttendanceRecord, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("a.user_id = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where = append(where, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where = append(where, fmt.Sprintf("a.date <= $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	ctx, cancel := r.queryContext()
	defer cancel()

	countQuery := `SELECT COUNT(*) FROM attendance a WHERE ` + whereClause

	totalCount := 0
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := `
		SELECT a.id, a.user_id, a.date, a.check_in, a.check_out, a.status, a.work_hours, a.notes, a.created_at,
			COALESCE(ep.first_name || ' ' || ep.last_name, u.employee_id) AS user_name
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		LEFT JOIN employee_profiles ep ON ep.user_id = a.user_id
		WHERE ` + whereClause + `
		ORDER BY a.date DESC, a.check_in DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		rec := &domain.AttendanceRecord{}
		dst := []any{&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status, &rec.WorkHours, &rec.Notes, &rec.CreatedAt, &rec.UserName}
		if err := rows.Scan(dst...); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

// WeeklySummary aggregates the trailing 7 days inclusive of today. Weekends
// are not excluded; weekend-tagged rows simply fall outside the counted
// statuses.
func (r *Repository) WeeklySummary(userID int64, from time.Time) (*domain.WeeklySummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'present') AS present_days,
			COUNT(*) FILTER (WHERE status = 'late') AS late_days,
			COUNT(*) FILTER (WHERE status = 'absent') AS absent_days,
			COUNT(*) FILTER (WHERE status = 'half-day') AS half_days,
			COALESCE(SUM(work_hours), 0) AS total_hours
		FROM attendance
		WHERE user_id = $1 AND date >= $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	summary := &domain.WeeklySummary{}
	dst := []any{&summary.PresentDays, &summary.LateDays, &summary.AbsentDays, &summary.HalfDays, &summary.TotalHours}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, from).Scan(dst...); err != nil {
		return nil, err
	}

	return summary, nil
}
