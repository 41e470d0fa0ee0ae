package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/corehr/hrm-backend/internal/domain"
)

func TestAuthenticateMissingToken(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Message != "Access token required" {
		t.Errorf("Message = %q, want %q", resp.Message, "Access token required")
	}
}

func TestAuthenticateMalformedToken(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Invalid token" {
		t.Errorf("Message = %q, want %q", resp.Message, "Invalid token")
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	h, _ := newTestHandler(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Role: string(domain.RoleEmployee),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(1, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(h.config.JWT.AccessSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Token expired" {
		t.Errorf("Message = %q, want %q", resp.Message, "Token expired")
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	h, mock := newTestHandler(t)

	token := signAccessToken(t, h, 1, domain.RoleEmployee)
	expectUserLookup(mock, 1, domain.RoleEmployee, domain.UserStatusInactive)

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "User not found or inactive" {
		t.Errorf("Message = %q, want %q", resp.Message, "User not found or inactive")
	}
}

// an employee token on an admin-only route passes authentication but fails
// the role gate
func TestRequiredRoleForbidden(t *testing.T) {
	h, mock := newTestHandler(t)

	token := signAccessToken(t, h, 1, domain.RoleEmployee)
	expectUserLookup(mock, 1, domain.RoleEmployee, domain.UserStatusActive)

	req := httptest.NewRequest(http.MethodGet, "/employees/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Insufficient permissions" {
		t.Errorf("Message = %q, want %q", resp.Message, "Insufficient permissions")
	}
}
