package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/corehr/hrm-backend/internal/config"
	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Redis.OperationTimeout = 1
	cfg.JWT.AccessSecret = "test-access-secret"
	cfg.JWT.AccessExpiration = 900
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	cfg.JWT.RefreshExpiration = 604800
	cfg.Attendance.LateAfter = "09:30"
	cfg.Attendance.HalfDayBelowHours = 4
	cfg.Leave.PaidPerYear = 20
	cfg.Leave.SickPerYear = 10

	repo := repository.NewRepository(cfg, db)
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	h, err := NewHandler(cfg, repo, rdb)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}
	h.RegisterRoutes()

	return h, mock
}

func signAccessToken(t *testing.T, h *Handler, userID int64, role domain.Role) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString([]byte(h.config.JWT.AccessSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// expectUserLookup queues the query the auth middleware runs to resolve the
// bearer token into a user row.
func expectUserLookup(mock sqlmock.Sqlmock, userID int64, role domain.Role, status domain.UserStatus) {
	rows := sqlmock.NewRows([]string{"employee_id", "email", "password_hash", "role", "status", "created_at"}).
		AddRow("EMP0001", "user@example.com", "$2a$12$hash", string(role), string(status), time.Now())
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(userID).
		WillReturnRows(rows)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}
