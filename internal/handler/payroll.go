package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

func (h *Handler) ListPayroll(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	page, limit := pageAndLimit(r)

	filter := repository.PayrollFilter{Page: page, Limit: limit}

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

	if raw := r.URL.Query().Get("month"); raw != "" {
		filter.Month = &raw
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.badRequest(w, r, "Invalid year")
			return
		}
		filter.Year = &year
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.PayrollStatus(raw)
		filter.Status = &status
	}

	records, totalCount, err := h.repository.ListPayroll(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.paginatedResponse(w, r, "OK", records, NewPagination(page, limit, totalCount))
}

func (h *Handler) PayrollSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	h.payrollSummary(w, r, user.ID)
}

func (h *Handler) PayrollSummaryFor(w http.ResponseWriter, r *http.Request) {
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

	h.payrollSummary(w, r, userID)
}

func (h *Handler) payrollSummary(w http.ResponseWriter, r *http.Request, userID int64) {
	summary, err := h.repository.PayrollSummary(userID, time.Now().Year())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", summary)
}

// parseMonth validates the YYYY-MM key and extracts its year.
func parseMonth(month string) (int, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

func (h *Handler) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64   `json:"userId" validate:"required"`
		Month       string  `json:"month" validate:"required"`
		BasicSalary float64 `json:"basicSalary" validate:"required,gte=0"`
		Allowances  float64 `json:"allowances" validate:"gte=0"`
		Deductions  float64 `json:"deductions" validate:"gte=0"`
		Notes       *string `json:"notes" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	year, err := parseMonth(req.Month)
	if err != nil {
		h.fieldErrors(w, r, FieldError{Field: "month", Message: "month must be in YYYY-MM format"})
		return
	}

	rec := &domain.PayrollRecord{
		UserID:      req.UserID,
		Month:       req.Month,
		Year:        year,
		BasicSalary: req.BasicSalary,
		Allowances:  req.Allowances,
		Deductions:  req.Deductions,
		Notes:       req.Notes,
	}
	rec.Recompute()

	if err := h.repository.CreatePayroll(rec); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.createdResponse(w, r, "Payroll record created", rec)
}

// GeneratePayroll bulk-creates pending records for every active salaried
// employee. Months that already have a record are skipped, so rerunning the
// same month is harmless.
func (h *Handler) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	year, err := parseMonth(req.Month)
	if err != nil {
		h.fieldErrors(w, r, FieldError{Field: "month", Message: "month must be in YYYY-MM format"})
		return
	}

	users, err := h.repository.ActiveSalariedUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	records := make([]*domain.PayrollRecord, 0, len(users))
	skipped := 0
	for _, u := range users {
		rec, err := h.repository.GeneratePayroll(u.UserID, req.Month, year, u.Salary)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if rec == nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	h.createdResponse(w, r, fmt.Sprintf("Generated payroll for %s", req.Month), struct {
		Month     string                  `json:"month"`
		Generated int                     `json:"generated"`
		Skipped   int                     `json:"skipped"`
		Records   []*domain.PayrollRecord `json:"records"`
	}{req.Month, len(records), skipped, records})
}

func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	rec := r.Context().Value(PayrollCtx).(*domain.PayrollRecord)

	if user.Role != domain.RoleAdmin && rec.UserID != user.ID {
		h.forbidden(w, r, "Access denied")
		return
	}

	h.successResponse(w, r, "OK", rec)
}

func (h *Handler) UpdatePayroll(w http.ResponseWriter, r *http.Request) {
	rec := r.Context().Value(PayrollCtx).(*domain.PayrollRecord)

	var req struct {
		BasicSalary *float64 `json:"basicSalary" validate:"omitempty,gte=0"`
		Allowances  *float64 `json:"allowances" validate:"omitempty,gte=0"`
		Deductions  *float64 `json:"deductions" validate:"omitempty,gte=0"`
		Status      *string  `json:"status" validate:"omitempty,oneof=pending paid"`
		Notes       *string  `json:"notes" validate:"omitempty,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	// merge onto the stored components, then recompute the net so it can
	// never drift from the triple
	basic := rec.BasicSalary
	if req.BasicSalary != nil {
		basic = *req.BasicSalary
	}
	allowances := rec.Allowances
	if req.Allowances != nil {
		allowances = *req.Allowances
	}
	deductions := rec.Deductions
	if req.Deductions != nil {
		deductions = *req.Deductions
	}
	net := domain.NetSalary(basic, allowances, deductions)

	var status *domain.PayrollStatus
	if req.Status != nil {
		s := domain.PayrollStatus(*req.Status)
		status = &s
	}

	updated, err := h.repository.UpdatePayroll(rec.ID, basic, allowances, deductions, net, status, req.Notes)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "Payroll record updated", updated)
}

func (h *Handler) ProcessPayroll(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.badRequest(w, r, "Invalid payroll ID")
		return
	}

	rec, err := h.repository.ProcessPayroll(id)
	if err != nil {
		switch {
		// missing and already-paid are indistinguishable here on purpose
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, "Payroll record not found or already paid")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Payroll processed", rec)
}
