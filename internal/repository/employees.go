package repository

import (
	"fmt"
	"strings"

	"github.com/corehr/hrm-backend/internal/domain"
)

const employeeColumns = `
	u.id, u.employee_id, u.email, u.role, u.status, u.created_at,
	ep.first_name, ep.last_name, ep.avatar, ep.phone, ep.address,
	ep.department, ep.position, ep.date_of_joining, ep.salary
`

func scanEmployee(row interface{ Scan(...any) error }) (*domain.Employee, error) {
	e := &domain.Employee{}
	dst := []any{
		&e.ID, &e.EmployeeID, &e.Email, &e.Role, &e.Status, &e.CreatedAt,
		&e.FirstName, &e.LastName, &e.Avatar, &e.Phone, &e.Address,
		&e.Department, &e.Position, &e.DateOfJoining, &e.Salary,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repository) GetEmployee(userID int64) (*domain.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM users u
		JOIN employee_profiles ep ON ep.user_id = u.id
		WHERE u.id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanEmployee(r.dbpool.QueryRowContext(ctx, query, userID))
}

type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	Avatar    *string
}

// UpdateProfile patches the contact fields an employee owns; nil fields keep
// their stored value.
func (r *Repository) UpdateProfile(userID int64, p UpdateProfileParams) error {
	query := `
		UPDATE employee_profiles
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			phone = COALESCE($3, phone),
			address = COALESCE($4, address),
			avatar = COALESCE($5, avatar),
			updated_at = now()
		WHERE user_id = $6
		RETURNING user_id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var id int64
	args := []any{p.FirstName, p.LastName, p.Phone, p.Address, p.Avatar, userID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&id)
}

type UpdateEmployeeParams struct {
	Department *string
	Position   *string
	Salary     *float64
	Status     *domain.UserStatus
}

// UpdateEmployee applies the admin-owned fields. Profile fields and the user
// status row live in different tables, so both writes run in one transaction.
func (r *Repository) UpdateEmployee(userID int64, p UpdateEmployeeParams) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if p.Department != nil || p.Position != nil || p.Salary != nil {
		query := `
			UPDATE employee_profiles
			SET department = COALESCE($1, department),
				position = COALESCE($2, position),
				salary = COALESCE($3, salary),
				updated_at = now()
			WHERE user_id = $4
			RETURNING user_id
		`

		var id int64
		if err := tx.QueryRowContext(ctx, query, p.Department, p.Position, p.Salary, userID).Scan(&id); err != nil {
			return err
		}
	}

	if p.Status != nil {
		query := `
			UPDATE users SET status = $1, updated_at = now() WHERE id = $2
			RETURNING id
		`

		var id int64
		if err := tx.QueryRowContext(ctx, query, *p.Status, userID).Scan(&id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type EmployeeFilter struct {
	Search     string
	Department string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// sortColumns is the whitelist guarding ORDER BY interpolation.
var sortColumns = map[string]string{
	"created_at": "u.created_at",
	"first_name": "ep.first_name",
	"last_name":  "ep.last_name",
	"department": "ep.department",
	"position":   "ep.position",
}

func (r *Repository) ListEmployees(f EmployeeFilter) ([]*domain.Employee, int, error) {
	where := []string{"u.status = 'active'"}
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(ep.first_name ILIKE $%d OR ep.last_name ILIKE $%d OR u.email ILIKE $%d OR u.employee_id ILIKE $%d)", n, n, n, n))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		where = append(where, fmt.Sprintf("ep.department = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	ctx, cancel := r.queryContext()
	defer cancel()

	countQuery := `
		SELECT COUNT(*) FROM users u
		JOIN employee_profiles ep ON ep.user_id = u.id
		WHERE ` + whereClause

	totalCount := 0
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	orderBy, ok := sortColumns[f.SortBy]
	if !ok {
		orderBy = "u.created_at"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := `
		SELECT ` + employeeColumns + `
		FROM users u
		JOIN employee_profiles ep ON ep.user_id = u.id
		WHERE ` + whereClause + `
		ORDER BY ` + orderBy + ` ` + direction + `
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, totalCount, nil
}

func (r *Repository) GetDepartments() ([]*domain.Department, error) {
	query := `
		SELECT department, COUNT(*) AS employee_count
		FROM employee_profiles
		WHERE department IS NOT NULL
		GROUP BY department
		ORDER BY department
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]*domain.Department, 0)
	for rows.Next() {
		d := &domain.Department{}
		if err := rows.Scan(&d.Name, &d.EmployeeCount); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}
