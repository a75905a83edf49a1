package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eventflow/event-booking/internal/handler"
	"github.com/eventflow/event-booking/internal/middleware"
	"github.com/eventflow/event-booking/internal/model"
)

// RegisterAdmin registers the management surface: event lifecycle,
// user administration and reservation adjudication.  Every route in
// here requires an access token carrying the admin role.
func RegisterAdmin(e *echo.Echo, ev *handler.EventHandler, u *handler.UserHandler,
	r *handler.ReservationHandler, jwtSecret string,
	bl middleware.Blacklist, users middleware.UserResolver) {

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret, bl, users))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	// Event lifecycle.  The admin listing includes drafts and canceled
	// events, unlike the public one.
	g.GET("/events/admin/all", ev.ListAll)
	g.POST("/events", ev.Create)
	g.PUT("/events/:id", ev.Update)
	g.PATCH("/events/:id", ev.Update) // alias for clients that use PATCH
	g.DELETE("/events/:id", ev.Delete)

	// User management.
	g.POST("/users", u.Create)
	g.GET("/users", u.List)
	g.GET("/users/:id", u.Get)
	g.PUT("/users/:id", u.Update)
	g.PATCH("/users/:id", u.Update)
	g.DELETE("/users/:id", u.Delete)

	// Reservation adjudication.
	g.GET("/reservations/event/:eventId", r.ListByEvent)
	g.PATCH("/reservations/:id/status", r.UpdateStatus)
}
