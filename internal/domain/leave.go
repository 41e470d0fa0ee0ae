package domain

import (
	"time"
)

type LeaveType string

const (
	LeavePaid   LeaveType = "paid"
	LeaveSick   LeaveType = "sick"
	LeaveUnpaid LeaveType = "unpaid"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"userId"`
	UserName     string      `json:"userName"`
	Type         LeaveType   `json:"type"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	Reason       string      `json:"reason"`
	Status       LeaveStatus `json:"status"`
	AdminComment *string     `json:"adminComment"`
	ReviewedBy   *int64      `json:"reviewedBy"`
	ReviewedAt   *time.Time  `json:"reviewedAt"`
	EmployeeName string      `json:"employeeName,omitempty"`
	Department   *string     `json:"department,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type LeaveQuota struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type LeaveBalance struct {
	PaidLeave LeaveQuota `json:"paidLeave"`
	SickLeave LeaveQuota `json:"sickLeave"`
}

// NewLeaveBalance builds the balance from the annual allotments and the
// number of approved requests of each type in the current year.
func NewLeaveBalance(paidTotal, sickTotal, usedPaid, usedSick int) LeaveBalance {
	return LeaveBalance{
		PaidLeave: LeaveQuota{Total: paidTotal, Used: usedPaid, Remaining: paidTotal - usedPaid},
		SickLeave: LeaveQuota{Total: sickTotal, Used: usedSick, Remaining: sickTotal - usedSick},
	}
}
