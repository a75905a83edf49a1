package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/event-booking/internal/config"
	"github.com/eventflow/event-booking/internal/handler"
	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/repository"
	"github.com/eventflow/event-booking/internal/service"
	"github.com/eventflow/event-booking/internal/utils"
)

const testSecret = "router-test-secret"

type staticUsers map[uint64]*model.User

func (s staticUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

// routeReservations is just enough store to let a booking request reach
// a success response; the role gate is what is under test.
type routeReservations struct{}

func (routeReservations) Book(_ context.Context, userID, eventID uint64) (*model.Reservation, error) {
	return &model.Reservation{ID: 1, UserID: userID, EventID: eventID, Status: model.ReservationPending}, nil
}

func (routeReservations) GetByID(context.Context, uint64) (*model.Reservation, error) {
	return nil, repository.ErrReservationNotFound
}

func (routeReservations) GetByIDForUser(context.Context, uint64, uint64) (*model.Reservation, error) {
	return nil, repository.ErrReservationNotFound
}

func (routeReservations) UpdateStatusFrom(context.Context, uint64, string, ...string) (bool, error) {
	return false, nil
}

func (routeReservations) ListByUser(context.Context, uint64) ([]repository.ReservationDetail, error) {
	return nil, nil
}

func (routeReservations) ListByEvent(context.Context, uint64) ([]repository.ReservationWithUser, error) {
	return nil, nil
}

func (routeReservations) GetTicketDetail(context.Context, uint64, uint64) (*repository.TicketDetail, error) {
	return nil, repository.ErrReservationNotFound
}

func TestReservationRoutesAreParticipantOnly(t *testing.T) {
	users := staticUsers{
		1: {ID: 1, Email: "root@example.com", Role: model.RoleAdmin},
		2: {ID: 2, Email: "ana@example.com", Role: model.RoleParticipant},
	}
	svc := service.NewReservationService(routeReservations{}, nil, nil, nil)
	e := echo.New()
	RegisterParticipant(e, handler.NewReservationHandler(svc), testSecret,
		repository.NewMemoryBlacklist(), users, config.RateLimitConfig{}, nil)

	token := func(id uint64, email, role string) string {
		tok, err := utils.NewAccessToken(testSecret, id, email, role, 15)
		require.NoError(t, err)
		return tok.Token
	}
	do := func(tok, method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	adminTok := token(1, "root@example.com", model.RoleAdmin)
	partTok := token(2, "ana@example.com", model.RoleParticipant)

	// A participant token passes the gate and books.
	rec := do(partTok, http.MethodPost, "/v1/reservations", `{"eventId":7}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// An admin token is stopped at the role gate on every booking
	// route; admins act on reservations through the admin surface only.
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/reservations"},
		{http.MethodGet, "/v1/reservations/my"},
		{http.MethodPatch, "/v1/reservations/1/cancel"},
		{http.MethodGet, "/v1/reservations/1/ticket"},
	}
	for _, r := range routes {
		rec := do(adminTok, r.method, r.path, `{"eventId":7}`)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", r.method, r.path)
	}
}
