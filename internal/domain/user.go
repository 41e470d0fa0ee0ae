package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           int64      `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Employee is the joined view of a user and their profile, the shape
// every profile-facing endpoint returns.
type Employee struct {
	ID            int64      `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	Status        UserStatus `json:"status"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Avatar        *string    `json:"avatar"`
	Phone         *string    `json:"phone"`
	Address       *string    `json:"address"`
	Department    *string    `json:"department"`
	Position      *string    `json:"position"`
	DateOfJoining time.Time  `json:"dateOfJoining"`
	Salary        *float64   `json:"salary"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Department struct {
	Name          string `json:"department"`
	EmployeeCount int    `json:"employeeCount"`
}
