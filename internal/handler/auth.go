package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventflow/event-booking/internal/middleware"
	"github.com/eventflow/event-booking/internal/repository"
	"github.com/eventflow/event-booking/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUserPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type authData struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        authUserPart `json:"user"`
}

const minPasswordLen = 8

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register creates a participant account and returns a token
// immediately (auto-login).  Any role supplied by the caller is ignored.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "fullName, email and password are required")
	}
	if len(req.Password) < minPasswordLen {
		return fail(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Register(ctx, req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already in use")
		}
		return fail(c, http.StatusInternalServerError, "registration failed")
	}
	return respond(c, http.StatusCreated, "user registered successfully", authData{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
		User:        authUserPart{ID: res.UserID, Email: res.Email, Role: res.Role},
	})
}

// Login verifies credentials and returns a token plus the full user
// projection.  Failures never reveal whether the email or the password
// was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "login failed")
	}
	return respond(c, http.StatusOK, "login successful", authData{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
		User:        authUserPart{ID: res.UserID, FullName: res.FullName, Email: res.Email, Role: res.Role},
	})
}

// Logout revokes the presented token.  The route is behind JWTAuth, so
// the raw token is already validated and stored in the context.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, _ := c.Get(middleware.CtxToken).(string)
	if raw == "" {
		return fail(c, http.StatusUnauthorized, "missing bearer token")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Auth.Logout(ctx, raw); err != nil {
		return fail(c, http.StatusInternalServerError, "logout failed")
	}
	return respond(c, http.StatusOK, "logged out", nil)
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := middleware.PrincipalID(c)
	return respond(c, http.StatusOK, "authenticated", echo.Map{
		"user_id": id,
		"email":   c.Get(middleware.CtxEmail),
		"role":    c.Get(middleware.CtxRole),
	})
}
