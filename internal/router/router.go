package router // route registration for the event booking API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eventflow/event-booking/internal/config"
	"github.com/eventflow/event-booking/internal/handler"
	"github.com/eventflow/event-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// The health check is used by load balancers to verify the service is
// up; the public event listings let guests browse before registering.
func RegisterRoutes(e *echo.Echo, ev *handler.EventHandler) {
	e.GET("/healthz", handler.Health)

	// Guests may browse published events without a session.
	e.GET("/v1/events", ev.ListPublic)
	e.GET("/v1/events/:id", ev.GetPublic)
}

// RegisterAuth registers the authentication routes and the generic
// authenticated endpoints.  Register and login are throttled per
// client IP; logout and /me require a live access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string,
	bl middleware.Blacklist, users middleware.UserResolver,
	rl config.RateLimitConfig, rdb *redis.Client) {

	g := e.Group("/v1/auth")
	limit := middleware.RateLimit(rl, rdb)
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret, bl, users))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}
