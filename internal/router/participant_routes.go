package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eventflow/event-booking/internal/config"
	"github.com/eventflow/event-booking/internal/handler"
	"github.com/eventflow/event-booking/internal/middleware"
	"github.com/eventflow/event-booking/internal/model"
)

// RegisterParticipant registers the booking surface.  Every route in
// here is participant-only: admins adjudicate reservations through the
// admin surface but do not book seats themselves.
func RegisterParticipant(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string,
	bl middleware.Blacklist, users middleware.UserResolver,
	rl config.RateLimitConfig, rdb *redis.Client) {

	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret, bl, users))
	g.Use(middleware.RequireRole(model.RoleParticipant))

	// Booking is throttled: a single client hammering the seat counter
	// gets cut off before it reaches the database.
	g.POST("", r.Create, middleware.RateLimit(rl, rdb))
	g.GET("/my", r.FindMine)
	g.PATCH("/:id/cancel", r.Cancel)
	g.GET("/:id/ticket", r.DownloadTicket)
}
