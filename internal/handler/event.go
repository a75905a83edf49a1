package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/repository"
)

// EventStore is the event persistence contract the handler needs.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	GetPublishedByID(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListPublished(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, id uint64, e *model.Event) (*model.Event, error)
	Delete(ctx context.Context, id uint64) error
}

// EventHandler exposes the public catalogue and the admin event CRUD.
type EventHandler struct {
	Events EventStore
}

func NewEventHandler(events EventStore) *EventHandler {
	return &EventHandler{Events: events}
}

type eventReq struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"` // RFC3339
	Location      string `json:"location"`
	TotalCapacity uint32 `json:"totalCapacity"`
	Status        string `json:"status"`
}

func (r *eventReq) toModel() (*model.Event, string) {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Title == "" || r.Description == "" || r.Date == "" || r.Location == "" {
		return nil, "title, description, date and location are required"
	}
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return nil, "date must be RFC3339"
	}
	if r.TotalCapacity < 1 {
		return nil, "totalCapacity must be at least 1"
	}
	status := strings.ToUpper(strings.TrimSpace(r.Status))
	if status == "" {
		status = model.EventStatusDraft
	}
	if !model.ValidEventStatus(status) {
		return nil, "status must be DRAFT, PUBLISHED or CANCELED"
	}
	return &model.Event{
		Title:         r.Title,
		Description:   r.Description,
		Date:          date.UTC(),
		Location:      r.Location,
		TotalCapacity: r.TotalCapacity,
		Status:        status,
	}, ""
}

func eventID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid event id")
	}
	return id, nil
}

// ListPublic returns the published catalogue, soonest first.
func (h *EventHandler) ListPublic(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	events, err := h.Events.ListPublished(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, "published events retrieved successfully", events)
}

// GetPublic returns a single published event; drafts and canceled
// events look like 404 to participants.
func (h *EventHandler) GetPublic(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	event, err := h.Events.GetPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, "event retrieved successfully", event)
}

// ListAll returns every event regardless of status (admin).
func (h *EventHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	events, err := h.Events.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, "all events retrieved successfully", events)
}

// Create inserts a new event (admin).
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	e, msg := req.toModel()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Events.Create(ctx, e); err != nil {
		return fail(c, http.StatusInternalServerError, "create event failed")
	}
	return respond(c, http.StatusCreated, "event created successfully", e)
}

// Update rewrites an event's administrative fields (admin).  The seat
// counter is not editable here.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	e, msg := req.toModel()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	updated, err := h.Events.Update(ctx, id, e)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return fail(c, http.StatusNotFound, "event not found")
		case errors.Is(err, repository.ErrCapacityTooSmall):
			return fail(c, http.StatusConflict, "totalCapacity cannot be below the seats already reserved")
		}
		return fail(c, http.StatusInternalServerError, "update event failed")
	}
	return respond(c, http.StatusOK, "event updated successfully", updated)
}

// Delete removes an event (admin).
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return fail(c, http.StatusNotFound, "event not found")
		}
		return fail(c, http.StatusInternalServerError, "delete event failed")
	}
	return respond(c, http.StatusOK, "event deleted successfully", nil)
}
