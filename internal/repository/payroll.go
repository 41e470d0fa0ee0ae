package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/corehr/hrm-backend/internal/domain"
)

// CreatePayroll inserts the month's record. UNIQUE(user_id, month) is the
// one-record-per-month guard; duplicates surface as a unique violation.
func (r *Repository) CreatePayroll(rec *domain.PayrollRecord) error {
	query := `
		INSERT INTO payroll (user_id, month, year, basic_salary, allowances, deductions, net_salary, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)
		RETURNING id, status, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{rec.UserID, rec.Month, rec.Year, rec.BasicSalary, rec.Allowances, rec.Deductions, rec.NetSalary, rec.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.Status, &rec.CreatedAt); err != nil {
		return err
	}

	return nil
}

const payrollColumns = `
	p.id, p.user_id, p.month, p.year, p.basic_salary, p.allowances, p.deductions,
	p.net_salary, p.status, p.notes, p.paid_at, p.created_at
`

func scanPayrollRecord(row interface{ Scan(...any) error }, withEmployee bool) (*domain.PayrollRecord, error) {
	rec := &domain.PayrollRecord{}
	dst := []any{
		&rec.ID, &rec.UserID, &rec.Month, &rec.Year, &rec.BasicSalary, &rec.Allowances, &rec.Deductions,
		&rec.NetSalary, &rec.Status, &rec.Notes, &rec.PaidAt, &rec.CreatedAt,
	}
	if withEmployee {
		dst = append(dst, &rec.EmployeeName, &rec.EmployeeID)
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Repository) GetPayrollByID(id int64) (*domain.PayrollRecord, error) {
	query := `
		SELECT ` + payrollColumns + `,
			COALESCE(ep.first_name || ' ' || ep.last_name, u.employee_id) AS employee_name,
			u.employee_id
		FROM payroll p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN employee_profiles ep ON ep.user_id = p.user_id
		WHERE p.id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanPayrollRecord(r.dbpool.QueryRowContext(ctx, query, id), true)
}

type PayrollFilter struct {
	UserID *int64
	Month  *string
	Year   *int
	Status *domain.PayrollStatus
	Page   int
	Limit  int
}

func (r *Repository) ListPayroll(f PayrollFilter) ([]*domain.PayrollRecord, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("p.user_id = $%d", len(args)))
	}
	if f.Month != nil {
		args = append(args, *f.Month)
		where = append(where, fmt.Sprintf("p.month = $%d", len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		where = append(where, fmt.Sprintf("p.year = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	ctx, cancel := r.queryContext()
	defer cancel()

	countQuery := `SELECT COUNT(*) FROM payroll p WHERE ` + whereClause

	totalCount := 0
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := `
		SELECT ` + payrollColumns + `,
			COALESCE(ep.first_name || ' ' || ep.last_name, u.employee_id) AS employee_name,
			u.employee_id
		FROM payroll p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN employee_profiles ep ON ep.user_id = p.user_id
		WHERE ` + whereClause + `
		ORDER BY p.year DESC, p.month DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]*domain.PayrollRecord, 0)
	for rows.Next() {
		rec, err := scanPayrollRecord(rows, true)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

// UpdatePayroll writes the full component triple plus the net recomputed by
// the caller, so the stored net can never drift from its components.
func (r *Repository) UpdatePayroll(id int64, basic, allowances, deductions, net float64, status *domain.PayrollStatus, notes *string) (*domain.PayrollRecord, error) {
	query := `
		UPDATE payroll p
		SET basic_salary = $1,
			allowances = $2,
			deductions = $3,
			net_salary = $4,
			status = COALESCE($5, status),
			notes = COALESCE($6, notes),
			updated_at = now()
		WHERE id = $7
		RETURNING ` + payrollColumns

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{basic, allowances, deductions, net, status, notes, id}
	return scanPayrollRecord(r.dbpool.QueryRowContext(ctx, query, args...), false)
}

// ProcessPayroll is the one-way pending→paid transition. Not-found and
// already-paid both come back as sql.ErrNoRows, which the handler collapses
// into a single error as the API contract requires.
func (r *Repository) ProcessPayroll(id int64) (*domain.PayrollRecord, error) {
	query := `
		UPDATE payroll p
		SET status = 'paid', paid_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + payrollColumns

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanPayrollRecord(r.dbpool.QueryRowContext(ctx, query, id), false)
}

type SalariedUser struct {
	UserID int64
	Salary float64
}

func (r *Repository) ActiveSalariedUsers() ([]SalariedUser, error) {
	query := `
		SELECT u.id, ep.salary
		FROM users u
		JOIN employee_profiles ep ON ep.user_id = u.id
		WHERE u.status = 'active' AND ep.salary > 0
		ORDER BY u.id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]SalariedUser, 0)
	for rows.Next() {
		var u SalariedUser
		if err := rows.Scan(&u.UserID, &u.Salary); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// GeneratePayroll creates the zero-allowance record for one user unless the
// month already has one. ON CONFLICT DO NOTHING makes the bulk run
// idempotent: the second run over the same month inserts nothing. Returns
// nil, nil when the row already existed.
func (r *Repository) GeneratePayroll(userID int64, month string, year int, salary float64) (*domain.PayrollRecord, error) {
	query := `
		INSERT INTO payroll (user_id, month, year, basic_salary, allowances, deductions, net_salary, status)
		VALUES ($1, $2, $3, $4, 0, 0, $4, 'pending')
		ON CONFLICT (user_id, month) DO NOTHING
		RETURNING id, user_id, month, year, basic_salary, allowances, deductions, net_salary, status, notes, paid_at, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rec, err := scanPayrollRecord(r.dbpool.QueryRowContext(ctx, query, userID, month, year, salary), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rec, nil
}

// PayrollSummary aggregates the user's current-year records: paid and
// pending net sums, paid-month count, and the maximum net seen.
func (r *Repository) PayrollSummary(userID int64, year int) (*domain.PayrollSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(net_salary) FILTER (WHERE status = 'paid'), 0) AS total_earned,
			COALESCE(SUM(net_salary) FILTER (WHERE status = 'pending'), 0) AS pending,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_months,
			COALESCE(MAX(net_salary), 0) AS last_salary
		FROM payroll
		WHERE user_id = $1 AND year = $2
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	summary := &domain.PayrollSummary{}
	dst := []any{&summary.TotalEarned, &summary.Pending, &summary.PaidMonths, &summary.LastSalary}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, year).Scan(dst...); err != nil {
		return nil, err
	}

	return summary, nil
}
