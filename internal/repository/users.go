package repository

import (
	"github.com/corehr/hrm-backend/internal/domain"
)

// CreateEmployee inserts the user and their profile in one transaction so a
// half-registered account can never be observed.
func (r *Repository) CreateEmployee(user *domain.User, firstName, lastName string) error {
	ctx, cancel := r.queryContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userQuery := `
		INSERT INTO users (employee_id, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id, status, created_at
	`

	args := []any{user.EmployeeID, user.Email, user.PasswordHash, user.Role}
	if err := tx.QueryRowContext(ctx, userQuery, args...).Scan(&user.ID, &user.Status, &user.CreatedAt); err != nil {
		return err
	}

	profileQuery := `
		INSERT INTO employee_profiles (user_id, first_name, last_name, department, position, date_of_joining)
		VALUES ($1, $2, $3, 'Unassigned', 'New Employee', CURRENT_DATE)
	`

	if _, err := tx.ExecContext(ctx, profileQuery, user.ID, firstName, lastName); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT employee_id, email, password_hash, role, status, created_at
		FROM users WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.EmployeeID, &user.Email, &user.PasswordHash, &user.Role, &user.Status, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(email string) (*domain.User, error) {
	query := `
		SELECT id, employee_id, email, password_hash, role, status, created_at
		FROM users WHERE lower(email) = lower($1)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	user := &domain.User{}

	dst := []any{&user.ID, &user.EmployeeID, &user.Email, &user.PasswordHash, &user.Role, &user.Status, &user.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	exists := false

	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) EmployeeIDExists(employeeID string) (bool, error) {
	exists := false

	ctx, cancel := r.queryContext()
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE employee_id = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
