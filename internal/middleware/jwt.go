package middleware // middleware contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/utils"
)

// Blacklist is the subset of the revocation store the middleware needs.
type Blacklist interface {
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// UserResolver resolves a token subject to a live user record.
type UserResolver interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxToken  = "token"
)

// JWTAuth returns an Echo middleware that authenticates a Bearer access
// token.  The gates run in a fixed order:
//
//  1. signature/expiry — fail closed on anything unverifiable;
//  2. revocation store — a freshly logged-out token must be refused
//     before its payload is trusted for any authorization decision;
//  3. subject lookup — the user behind the token must still exist.
//
// On success the principal (user id, email, role) and the raw token are
// attached to the request context.
func JWTAuth(secret string, bl Blacklist, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid or expired token"})
			}

			revoked, err := bl.IsRevoked(c.Request().Context(), utils.HashToken(raw))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "authorization check failed"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "session expired, try logging in again"})
			}

			u, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				// Covers both a deleted account and a fabricated subject.
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unknown user"})
			}

			// The role comes from the live record, not the token, so a
			// role change takes effect without waiting for token expiry.
			c.Set(CtxUserID, u.ID)
			c.Set(CtxEmail, u.Email)
			c.Set(CtxRole, u.Role)
			c.Set(CtxToken, raw)
			return next(c)
		}
	}
}

// PrincipalID extracts the authenticated user id from the context.  The
// boolean is false when JWTAuth did not run on this route.
func PrincipalID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}
