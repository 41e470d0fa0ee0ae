package handler

import (
	"net/http"
	"time"

	"github.com/corehr/hrm-backend/internal/domain"
)

// DashboardStats serves the role-appropriate aggregate: admins get the
// organization counters, employees get their own day.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)
	today := dateOf(time.Now())

	if user.Role == domain.RoleAdmin {
		stats, err := h.repository.AdminStats(today)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "OK", stats)
		return
	}

	stats, err := h.repository.EmployeeStats(user.ID, today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	h.successResponse(w, r, "OK", stats)
}

func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	activities, err := h.repository.RecentActivity(dateOf(time.Now()), limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", activities)
}

func (h *Handler) DepartmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repository.DepartmentStats(dateOf(time.Now()))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", stats)
}
