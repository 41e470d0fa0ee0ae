package handler

import (
	"net/http"

	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	employee, err := h.repository.GetEmployee(user.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", employee)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var req struct {
		FirstName *string `json:"firstName" validate:"omitempty,max=50"`
		LastName  *string `json:"lastName" validate:"omitempty,max=50"`
		Phone     *string `json:"phone" validate:"omitempty,max=20"`
		Address   *string `json:"address" validate:"omitempty,max=255"`
		Avatar    *string `json:"avatar" validate:"omitempty,url,max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	err := h.repository.UpdateProfile(user.ID, repository.UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Avatar:    req.Avatar,
	})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployee(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Profile updated", employee)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	page, limit := pageAndLimit(r)

	filter := repository.EmployeeFilter{
		Search:     r.URL.Query().Get("search"),
		Department: r.URL.Query().Get("department"),
		SortBy:     r.URL.Query().Get("sortBy"),
		SortOrder:  r.URL.Query().Get("sortOrder"),
		Page:       page,
		Limit:      limit,
	}

	employees, totalCount, err := h.repository.ListEmployees(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.paginatedResponse(w, r, "OK", employees, NewPagination(page, limit, totalCount))
}

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.repository.GetDepartments()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", departments)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "OK", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		Department *string  `json:"department" validate:"omitempty,max=100"`
		Position   *string  `json:"position" validate:"omitempty,max=100"`
		Salary     *float64 `json:"salary" validate:"omitempty,gte=0"`
		Status     *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	var status *domain.UserStatus
	if req.Status != nil {
		s := domain.UserStatus(*req.Status)
		status = &s
	}

	err := h.repository.UpdateEmployee(employee.ID, repository.UpdateEmployeeParams{
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
		Status:     status,
	})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	updated, err := h.repository.GetEmployee(employee.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Employee updated", updated)
}
