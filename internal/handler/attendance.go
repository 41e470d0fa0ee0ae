package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	// the body is optional; only notes can be supplied
	var req struct {
		Notes *string `json:"notes" validate:"omitempty,max=500"`
	}
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	now := time.Now()
	rec := &domain.AttendanceRecord{
		UserID:  user.ID,
		Date:    dateOf(now),
		CheckIn: &now,
		Status:  domain.CheckInStatus(now, h.config.Attendance.LateAfter),
		Notes:   req.Notes,
	}

	if err := h.repository.CreateCheckIn(rec); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			h.badRequest(w, r, "Already checked in today")
			return
		}
		h.storeError(w, r, err)
		return
	}

	h.createdResponse(w, r, "Checked in", rec)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var req struct {
		Notes *string `json:"notes" validate:"omitempty,max=500"`
	}
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	now := time.Now()

	rec, err := h.repository.GetTodayAttendance(user.ID, dateOf(now))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, "No check-in record found for today")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if rec.CheckOut != nil {
		h.badRequest(w, r, "Already checked out today")
		return
	}

	workHours := domain.WorkHours(*rec.CheckIn, now)
	status := domain.CheckOutStatus(rec.Status, workHours, h.config.Attendance.HalfDayBelowHours)

	updated, err := h.repository.CompleteCheckOut(rec.ID, now, workHours, status, req.Notes)
	if err != nil {
		switch {
		// a concurrent checkout already claimed the row
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, "Already checked out today")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Checked out", updated)
}

func (h *Handler) TodayAttendance(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	rec, err := h.repository.GetTodayAttendance(user.ID, dateOf(time.Now()))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "No attendance record for today", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "OK", rec)
}

func (h *Handler) AttendanceHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	page, limit := pageAndLimit(r)

	filter := repository.AttendanceFilter{Page: page, Limit: limit}

	// employees only ever see their own rows; admins may scope to one user
	// or see everyone's
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

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.AttendanceStatus(raw)
		filter.Status = &status
	}

	records, totalCount, err := h.repository.ListAttendance(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.paginatedResponse(w, r, "OK", records, NewPagination(page, limit, totalCount))
}

func (h *Handler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	h.weeklySummary(w, r, user.ID)
}

func (h *Handler) WeeklySummaryFor(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		h.badRequest(w, r, "Invalid user ID")
		return
	}

	if _, err := h.repository.GetUserByID(userID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Employee not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.weeklySummary(w, r, userID)
}

func (h *Handler) weeklySummary(w http.ResponseWriter, r *http.Request, userID int64) {
	from := dateOf(time.Now()).AddDate(0, 0, -7)

	summary, err := h.repository.WeeklySummary(userID, from)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", summary)
}

func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.badRequest(w, r, "Invalid attendance ID")
		return
	}

	var req struct {
		Status   *string    `json:"status" validate:"omitempty,oneof=present absent late half-day weekend holiday"`
		CheckIn  *time.Time `json:"checkIn"`
		CheckOut *time.Time `json:"checkOut"`
		Notes    *string    `json:"notes" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	var status *domain.AttendanceStatus
	if req.Status != nil {
		s := domain.AttendanceStatus(*req.Status)
		status = &s
	}

	rec, err := h.repository.UpdateAttendance(id, repository.UpdateAttendanceParams{
		Status:   status,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Attendance record not found")
		default:
			h.storeError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Attendance updated", rec)
}
