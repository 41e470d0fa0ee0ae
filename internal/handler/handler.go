package handler

import (
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"

	"github.com/corehr/hrm-backend/internal/config"
	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report field errors under their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	admin := h.RequiredRole(domain.RoleAdmin)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Get("/me", h.Me)
		})
	})

	// everything below requires a valid access token
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.ListEmployees)
			r.Get("/departments", h.GetDepartments)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employee)
				r.Get("/", h.GetEmployee)
				r.Put("/", h.UpdateEmployee)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", h.CheckIn)
			r.Post("/check-out", h.CheckOut)
			r.Get("/today", h.TodayAttendance)
			r.Get("/history", h.AttendanceHistory)
			r.Get("/weekly-summary", h.WeeklySummary)
			r.With(admin).Get("/weekly-summary/{userId}", h.WeeklySummaryFor)
			r.With(admin).Put("/{id}", h.UpdateAttendance)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Post("/", h.ApplyLeave)
			r.Get("/", h.ListLeave)
			r.Get("/balance", h.LeaveBalance)
			r.With(admin).Get("/pending-count", h.PendingLeaveCount)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.leaveRequest)
				r.Get("/", h.GetLeave)
				r.Delete("/", h.CancelLeave)
				r.With(admin).Put("/status", h.UpdateLeaveStatus)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", h.ListPayroll)
			r.Get("/summary", h.PayrollSummary)
			r.With(admin).Get("/summary/{userId}", h.PayrollSummaryFor)
			r.With(admin).Post("/", h.CreatePayroll)
			r.With(admin).Post("/generate", h.GeneratePayroll)
			r.Route("/{id}", func(r chi.Router) {
				r.With(h.payrollRecord).Get("/", h.GetPayroll)
				r.With(admin, h.payrollRecord).Put("/", h.UpdatePayroll)
				r.With(admin).Post("/process", h.ProcessPayroll)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", h.DashboardStats)
			r.With(admin).Get("/activity", h.RecentActivity)
			r.With(admin).Get("/departments", h.DepartmentStats)
		})
	})
}
