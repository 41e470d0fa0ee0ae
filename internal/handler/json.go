package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

func NewPagination(page, limit, totalCount int) *Pagination {
	totalPages := (totalCount + limit - 1) / limit
	return &Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasMore:    page*limit < totalCount,
	}
}

type Response struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	Data       any          `json:"data,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success:   true,
		Message:   msg,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) createdResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusCreated, Response{
		Success:   true,
		Message:   msg,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) paginatedResponse(w http.ResponseWriter, r *http.Request, msg string, data any, p *Pagination) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success:    true,
		Message:    msg,
		Data:       data,
		Pagination: p,
		Timestamp:  time.Now().UTC(),
	})
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success:   false,
		Message:   msg,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusBadRequest, msg)
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusUnauthorized, msg)
}

func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusForbidden, msg)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusNotFound, msg)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.errorResponse(w, r, http.StatusInternalServerError, "Internal server error")
}

// validationError turns a schema rejection into the full translated field
// list; anything that is not a validator error is reported as a malformed
// request.
func (h *Handler) validationError(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.badRequest(w, r, "Invalid request body")
		return
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(h.translator),
		})
	}

	h.writeJSON(w, r, http.StatusBadRequest, Response{
		Success:   false,
		Message:   "Validation failed",
		Errors:    fieldErrors,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) fieldErrors(w http.ResponseWriter, r *http.Request, errs ...FieldError) {
	h.writeJSON(w, r, http.StatusBadRequest, Response{
		Success:   false,
		Message:   "Validation failed",
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	})
}

// storeError is the single translation point for persistence failures:
// known Postgres constraint classes map to fixed 400 messages, missing rows
// to 404, everything else to a generic 500 with the real error logged only.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case "23505": // unique_violation
			h.badRequest(w, r, "Duplicate entry found")
		case "23503": // foreign_key_violation
			h.badRequest(w, r, "Referenced record does not exist")
		case "23502": // not_null_violation
			h.badRequest(w, r, "Required field is missing")
		case "22P02": // invalid_text_representation
			h.badRequest(w, r, "Invalid data format")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.notFound(w, r, "Resource not found")
	default:
		h.internalServerError(w, r, err)
	}
}
