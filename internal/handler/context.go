package handler

import (
	"net/http"

	"github.com/corehr/hrm-backend/internal/domain"
)

type ContextKey string

var (
	UserCtxKey      ContextKey = "user"
	EmployeeCtx     ContextKey = "employee"
	LeaveRequestCtx ContextKey = "leaveRequest"
	PayrollCtx      ContextKey = "payrollRecord"
)

// currentUser returns the identity the auth middleware attached. Routes
// behind authenticate always have one; optional-auth routes may not.
func currentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(UserCtxKey).(*domain.User)
	return user, ok
}
