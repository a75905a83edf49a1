package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventflow/event-booking/internal/middleware"
	"github.com/eventflow/event-booking/internal/repository"
	"github.com/eventflow/event-booking/internal/service"
)

// ReservationHandler covers both the participant surface (book, list
// mine, cancel, ticket) and the admin surface (per-event listing,
// status adjudication).
type ReservationHandler struct {
	Svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Svc: svc}
}

type createReservationReq struct {
	EventID uint64 `json:"eventId"`
}

type updateReservationStatusReq struct {
	Status string `json:"status"`
}

func reservationID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid reservation id")
	}
	return id, nil
}

// Create books one seat on an event for the calling participant.
// POST /v1/reservations
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, ok := middleware.PrincipalID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil || req.EventID == 0 {
		return fail(c, http.StatusBadRequest, "eventId is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Svc.Create(ctx, req.EventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return fail(c, http.StatusNotFound, "event not found or not open for booking")
		case errors.Is(err, repository.ErrSoldOut):
			return fail(c, http.StatusConflict, "event is sold out")
		case errors.Is(err, repository.ErrAlreadyBooked):
			return fail(c, http.StatusConflict, "you already have a reservation for this event")
		}
		return fail(c, http.StatusInternalServerError, "booking failed")
	}
	return respond(c, http.StatusCreated, "reservation created successfully", res)
}

// FindMine lists the caller's reservations, newest first.
// GET /v1/reservations/my
func (h *ReservationHandler) FindMine(c echo.Context) error {
	userID, ok := middleware.PrincipalID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Svc.FindMine(ctx, userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, "reservations retrieved successfully", list)
}

// Cancel lets a participant cancel their own reservation.
// PATCH /v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, ok := middleware.PrincipalID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	id, err := reservationID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Svc.Cancel(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return fail(c, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrAlreadyCanceled):
			return fail(c, http.StatusBadRequest, "reservation is already canceled")
		}
		return fail(c, http.StatusInternalServerError, "cancel failed")
	}
	return respond(c, http.StatusOK, "reservation canceled successfully", res)
}

// DownloadTicket streams the PDF ticket for a confirmed reservation
// owned by the caller.
// GET /v1/reservations/:id/ticket
func (h *ReservationHandler) DownloadTicket(c echo.Context) error {
	userID, ok := middleware.PrincipalID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthenticated")
	}
	id, err := reservationID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	pdf, err := h.Svc.TicketPDF(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return fail(c, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrNotConfirmed):
			return fail(c, http.StatusBadRequest, "ticket is only available for confirmed reservations")
		}
		return fail(c, http.StatusInternalServerError, "ticket generation failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=ticket-%d.pdf", id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ListByEvent lists all reservations for one event (admin).
// GET /v1/reservations/event/:eventId
func (h *ReservationHandler) ListByEvent(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil || eventID == 0 {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Svc.FindByEvent(ctx, eventID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, "reservations retrieved successfully", list)
}

// UpdateStatus adjudicates a reservation: confirm, refuse or cancel
// (admin).
// PATCH /v1/reservations/:id/status
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := reservationID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	var req updateReservationStatusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))

	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Svc.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return fail(c, http.StatusBadRequest, "status must be CONFIRMED, REFUSED or CANCELED")
		case errors.Is(err, service.ErrReopenNotAllowed):
			return fail(c, http.StatusBadRequest, "cannot confirm a reservation whose seat was already released")
		case errors.Is(err, repository.ErrReservationNotFound):
			return fail(c, http.StatusNotFound, "reservation not found")
		}
		return fail(c, http.StatusInternalServerError, "status update failed")
	}
	return respond(c, http.StatusOK, "reservation status updated successfully", res)
}
