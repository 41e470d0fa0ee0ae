package domain

import (
	"time"
)

type AdminStats struct {
	TotalEmployees   int `json:"totalEmployees"`
	PresentToday     int `json:"presentToday"`
	PendingLeaves    int `json:"pendingLeaves"`
	TotalDepartments int `json:"totalDepartments"`
}

type EmployeeStats struct {
	TodayStatus   string     `json:"todayStatus"`
	CheckIn       *time.Time `json:"checkIn"`
	CheckOut      *time.Time `json:"checkOut"`
	PendingLeaves int        `json:"pendingLeaves"`
	LastSalary    *float64   `json:"lastSalary"`
}

type Activity struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

type DepartmentStats struct {
	Department    string `json:"department"`
	EmployeeCount int    `json:"employeeCount"`
	PresentToday  int    `json:"presentToday"`
}
