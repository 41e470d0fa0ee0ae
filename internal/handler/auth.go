package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/corehr/hrm-backend/internal/domain"
)

// passwordHashCost is deliberately above bcrypt's default.
const passwordHashCost = 12

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// issueTokenPair mints a short-lived access token and a longer-lived refresh
// token signed with a distinct secret. The refresh token carries a random JTI
// so consecutive rotations never produce byte-identical tokens.
func (h *Handler) issueTokenPair(user *domain.User) (*tokenPair, error) {
	now := time.Now()
	subject := strconv.FormatInt(user.ID, 10)

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(h.config.JWT.AccessExpiration) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})
	accessString, err := access.SignedString([]byte(h.config.JWT.AccessSecret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(h.config.JWT.RefreshExpiration) * time.Second)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	})
	refreshString, err := refresh.SignedString([]byte(h.config.JWT.RefreshSecret))
	if err != nil {
		return nil, err
	}

	return &tokenPair{AccessToken: accessString, RefreshToken: refreshString}, nil
}

func refreshTokenKey(userID int64, token string) string {
	return fmt.Sprintf("refresh_token:%d:%s", userID, token)
}

func (h *Handler) redisContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

// storeRefreshToken persists the token with a TTL equal to its lifetime, so
// a token is valid only while its key exists.
func (h *Handler) storeRefreshToken(userID int64, token string) error {
	ctx, cancel := h.redisContext()
	defer cancel()

	ttl := time.Duration(h.config.JWT.RefreshExpiration) * time.Second
	return h.redisClient.Set(ctx, refreshTokenKey(userID, token), 1, ttl).Err()
}

func (h *Handler) refreshTokenExists(userID int64, token string) (bool, error) {
	ctx, cancel := h.redisContext()
	defer cancel()

	n, err := h.redisClient.Exists(ctx, refreshTokenKey(userID, token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (h *Handler) deleteRefreshToken(userID int64, token string) error {
	ctx, cancel := h.redisContext()
	defer cancel()

	return h.redisClient.Del(ctx, refreshTokenKey(userID, token)).Err()
}

func (h *Handler) deleteAllRefreshTokens(userID int64) error {
	ctx, cancel := h.redisContext()
	defer cancel()

	pattern := fmt.Sprintf("refresh_token:%d:*", userID)

	var cursor uint64
	for {
		keys, next, err := h.redisClient.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := h.redisClient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employeeId" validate:"required,alphanum,min=3,max=20"`
		Email      string `json:"email" validate:"required,email,max=255"`
		Password   string `json:"password" validate:"required,min=8,max=100"`
		FirstName  string `json:"firstName" validate:"required,max=50"`
		LastName   string `json:"lastName" validate:"required,max=50"`
		Role       string `json:"role" validate:"omitempty,oneof=admin employee"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	emailTaken, err := h.repository.EmailExists(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if emailTaken {
		h.badRequest(w, r, "Email already registered")
		return
	}

	idTaken, err := h.repository.EmployeeIDExists(req.EmployeeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if idTaken {
		h.badRequest(w, r, "Employee ID already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	role := domain.RoleEmployee
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	user := &domain.User{
		EmployeeID:   req.EmployeeID,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := h.repository.CreateEmployee(user, req.FirstName, req.LastName); err != nil {
		// a concurrent signup can still win the unique race
		h.storeError(w, r, err)
		return
	}

	tokens, err := h.issueTokenPair(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.storeRefreshToken(user.ID, tokens.RefreshToken); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployee(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.createdResponse(w, r, "Account created", struct {
		User *domain.Employee `json:"user"`
		tokenPair
	}{employee, *tokens})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	// unknown email, inactive account, and password mismatch all share one
	// message so the endpoint cannot be used to enumerate accounts
	user, err := h.repository.GetUserByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.unauthorized(w, r, "Invalid email or password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if user.Status != domain.UserStatusActive {
		h.unauthorized(w, r, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.unauthorized(w, r, "Invalid email or password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	tokens, err := h.issueTokenPair(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.storeRefreshToken(user.ID, tokens.RefreshToken); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployee(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Login successful", struct {
		User *domain.Employee `json:"user"`
		tokenPair
	}{employee, *tokens})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.RefreshSecret), nil
	})
	if err != nil {
		h.unauthorized(w, r, "Invalid refresh token")
		return
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		h.unauthorized(w, r, "Invalid refresh token")
		return
	}

	// the signature alone is not enough: the exact token string must still
	// be present in the store, so a rotated-out token cannot be replayed
	exists, err := h.refreshTokenExists(userID, req.RefreshToken)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !exists {
		h.unauthorized(w, r, "Invalid refresh token")
		return
	}

	user, err := h.repository.GetUserByID(userID)
	if err != nil || user.Status != domain.UserStatusActive {
		h.unauthorized(w, r, "Invalid refresh token")
		return
	}

	tokens, err := h.issueTokenPair(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// rotate: drop the presented token, persist the new one
	if err := h.deleteRefreshToken(userID, req.RefreshToken); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := h.storeRefreshToken(userID, tokens.RefreshToken); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Token refreshed", tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.validationError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.validationError(w, r, err)
		return
	}

	// best effort: a failed delete must not block the logout response
	if err := h.deleteRefreshToken(user.ID, req.RefreshToken); err != nil {
		slog.Error("failed to delete refresh token", "userID", user.ID, "error", err)
	}

	h.successResponse(w, r, "Logged out", nil)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	if err := h.deleteAllRefreshTokens(user.ID); err != nil {
		slog.Error("failed to delete refresh tokens", "userID", user.ID, "error", err)
	}

	h.successResponse(w, r, "Logged out from all devices", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	employee, err := h.repository.GetEmployee(user.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.successResponse(w, r, "OK", employee)
}
