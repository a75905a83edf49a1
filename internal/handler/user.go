package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/repository"
)

// UserHandler exposes the admin user-management surface.  This is the
// only path that may create an account with the admin role.
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

type createUserReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// userPart is the projection returned for user records; the password
// hash never leaves the handler layer.
type userPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func project(u *model.User) userPart {
	return userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}

func userID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}

// Create is the privileged creation path: an admin may set any role.
// An empty role defaults to participant.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
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
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleParticipant
	}
	if !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "role must be admin or participant")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	id, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password, role, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already in use")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}
	return respond(c, http.StatusCreated, "user created successfully",
		userPart{ID: id, FullName: req.FullName, Email: req.Email, Role: role})
}

// List returns all users (admin).
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	parts := make([]userPart, 0, len(users))
	for i := range users {
		parts = append(parts, project(&users[i]))
	}
	return respond(c, http.StatusOK, "users retrieved successfully", parts)
}

// Get returns one user by id (admin).
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, "user retrieved successfully", project(u))
}

// Update rewrites a user's profile fields (admin).
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if req.FullName == "" || req.Email == "" || !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "fullName, email and a valid role are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.Update(ctx, id, req.FullName, req.Email, role); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrEmailExists):
			return fail(c, http.StatusConflict, "email already in use")
		}
		return fail(c, http.StatusInternalServerError, "update user failed")
	}
	return respond(c, http.StatusOK, "user updated successfully",
		userPart{ID: id, FullName: req.FullName, Email: req.Email, Role: role})
}

// Delete removes a user (admin).
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "delete user failed")
	}
	return respond(c, http.StatusOK, "user deleted successfully", nil)
}
