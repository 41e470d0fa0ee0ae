package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var req struct {
		Type      string `json:"type" validate:"required,oneof=paid sick unpaid"`
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Reason    string `json:"reason" validate:"required,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.fieldErrors(w, r, FieldError{Field: "startDate", Message: "startDate must be a valid YYYY-MM-DD date"})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.fieldErrors(w, r, FieldError{Field: "endDate", Message: "endDate must be a valid YYYY-MM-DD date"})
		return
	}
	if endDate.Before(startDate) {
		h.fieldErrors(w, r, FieldError{Field: "endDate", Message: "endDate cannot be before startDate"})
		return
	}

	overlaps, err := h.repository.HasOverlappingLeave(user.ID, startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if overlaps {
		h.badRequest(w, r, "You already have a leave request for this period")
		return
	}

	employee, err := h.repository.GetEmployee(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	leave := &domain.LeaveRequest{
		UserID:    user.ID,
		UserName:  employee.FullName(),
		Type:      domain.LeaveType(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
	}

	if err := h.repository.CreateLeaveRequest(leave); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.createdResponse(w, r, "Leave request submitted", leave)
}

func (h *Handler) ListLeave(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	page, limit := pageAndLimit(r)

	filter := repository.LeaveFilter{Page: page, Limit: limit}

	if user.Role == domain.RoleAdmin {
		if raw := r.URL.Query().Get("userId"); raw != "" {
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				h.badRequest(w, r, "Invalid user ID")
				return
			}
			filter.UserID = &userID
		}
	} else {
		filter.UserID = &user.ID
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.LeaveStatus(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		leaveType := domain.LeaveType(raw)
		filter.Type = &leaveType
	}

	startDate, err := queryDate(r, "startDate")
	if err != nil {
		h.badRequest(w, r, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	filter.StartDate = startDate

	endDate, err := queryDate(r, "endDate")
	if err != nil {
		h.badRequest(w, r, "Invalid end date, expected YYYY-MM-DD")
		return
	}
	filter.EndDate = endDate

	requests, totalCount, err := h.repository.ListLeaveRequests(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.paginatedResponse(w, r, "OK", requests, NewPagination(page, limit, totalCount))
}

func (h *Handler) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	usedPaid, usedSick, err := h.repository.LeaveUsage(user.ID, time.Now().Year())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	balance := domain.NewLeaveBalance(h.config.Leave.PaidPerYear, h.config.Leave.SickPerYear, usedPaid, usedSick)
	h.successResponse(w, r, "OK", balance)
}

func (h *Handler) PendingLeaveCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.repository.PendingLeaveCount()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", struct {
		Count int `json:"count"`
	}{count})
}

func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	leave := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	if user.Role != domain.RoleAdmin && leave.UserID != user.ID {
		h.forbidden(w, r, "Access denied")
		return
	}

	h.successResponse(w, r, "OK", leave)
}

// CancelLeave lets the requester withdraw a still-pending request. Admins do
// not get to cancel on an employee's behalf; they reject instead.
func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	leave := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	if leave.UserID != user.ID {
		h.forbidden(w, r, "Access denied")
		return
	}
	if leave.Status != domain.LeavePending {
		h.badRequest(w, r, "Only pending leave requests can be cancelled")
		return
	}

	if err := h.repository.DeleteLeaveRequest(leave.ID); err != nil {
		switch {
		// an admin review landed between the load and the delete
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, "Only pending leave requests can be cancelled")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Leave request cancelled", nil)
}

func (h *Handler) UpdateLeaveStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	leave := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	var req struct {
		Status       string  `json:"status" validate:"required,oneof=approved rejected"`
		AdminComment *string `json:"adminComment" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	reviewed, err := h.repository.ReviewLeaveRequest(leave.ID, domain.LeaveStatus(req.Status), req.AdminComment, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, "Leave request has already been reviewed")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Leave request "+req.Status, reviewed)
}
