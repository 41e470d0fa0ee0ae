package domain

import (
	"time"
)

type PayrollStatus string

const (
	PayrollPending PayrollStatus = "pending"
	PayrollPaid    PayrollStatus = "paid"
)

type PayrollRecord struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"userId"`
	Month        string        `json:"month"` // YYYY-MM
	Year         int           `json:"year"`
	BasicSalary  float64       `json:"basicSalary"`
	Allowances   float64       `json:"allowances"`
	Deductions   float64       `json:"deductions"`
	NetSalary    float64       `json:"netSalary"`
	Status       PayrollStatus `json:"status"`
	Notes        *string       `json:"notes"`
	PaidAt       *time.Time    `json:"paidAt"`
	EmployeeName string        `json:"employeeName,omitempty"`
	EmployeeID   string        `json:"employeeId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// NetSalary is the arithmetic identity every payroll write must maintain.
func NetSalary(basic, allowances, deductions float64) float64 {
	return basic + allowances - deductions
}

// Recompute refreshes the stored net from the current component triple.
func (p *PayrollRecord) Recompute() {
	p.NetSalary = NetSalary(p.BasicSalary, p.Allowances, p.Deductions)
}

type PayrollSummary struct {
	TotalEarned float64 `json:"totalEarned"`
	Pending     float64 `json:"pending"`
	PaidMonths  int     `json:"paidMonths"`
	LastSalary  float64 `json:"lastSalary"`
}
