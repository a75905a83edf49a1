package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/event-booking/internal/model"
	"github.com/eventflow/event-booking/internal/repository"
)

// fakeEventStore returns canned answers; only Update matters here.
type fakeEventStore struct {
	updateErr error
	updated   *model.Event
}

func (f *fakeEventStore) Create(context.Context, *model.Event) error { return nil }
func (f *fakeEventStore) GetByID(context.Context, uint64) (*model.Event, error) {
	return nil, repository.ErrEventNotFound
}
func (f *fakeEventStore) GetPublishedByID(context.Context, uint64) (*model.Event, error) {
	return nil, repository.ErrEventNotFound
}
func (f *fakeEventStore) List(context.Context) ([]model.Event, error)          { return nil, nil }
func (f *fakeEventStore) ListPublished(context.Context) ([]model.Event, error) { return nil, nil }
func (f *fakeEventStore) Update(context.Context, uint64, *model.Event) (*model.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}
func (f *fakeEventStore) Delete(context.Context, uint64) error { return nil }

func TestEventReqToModel(t *testing.T) {
	valid := eventReq{
		Title:         " Go Conference 2026 ",
		Description:   "Two days of talks",
		Date:          "2026-10-03T09:00:00Z",
		Location:      "Lisbon",
		TotalCapacity: 300,
	}

	t.Run("valid with default status", func(t *testing.T) {
		req := valid
		e, msg := req.toModel()
		require.Empty(t, msg)
		assert.Equal(t, "Go Conference 2026", e.Title)
		assert.Equal(t, model.EventStatusDraft, e.Status)
		assert.Equal(t, uint32(300), e.TotalCapacity)
	})

	t.Run("status is normalized", func(t *testing.T) {
		req := valid
		req.Status = " published "
		e, msg := req.toModel()
		require.Empty(t, msg)
		assert.Equal(t, model.EventStatusPublished, e.Status)
	})

	tests := []struct {
		name   string
		mutate func(*eventReq)
	}{
		{name: "missing title", mutate: func(r *eventReq) { r.Title = "  " }},
		{name: "missing location", mutate: func(r *eventReq) { r.Location = "" }},
		{name: "bad date", mutate: func(r *eventReq) { r.Date = "03/10/2026" }},
		{name: "zero capacity", mutate: func(r *eventReq) { r.TotalCapacity = 0 }},
		{name: "unknown status", mutate: func(r *eventReq) { r.Status = "ARCHIVED" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			e, msg := req.toModel()
			assert.Nil(t, e)
			assert.NotEmpty(t, msg)
		})
	}
}

func updateEvent(t *testing.T, store EventStore) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	h := NewEventHandler(store)
	e := echo.New()
	body := `{"title":"Go Conference 2026","description":"Two days of talks",` +
		`"date":"2026-10-03T09:00:00Z","location":"Lisbon","totalCapacity":5,"status":"PUBLISHED"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.Update(c))

	var env apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestUpdateEventMapsStoreErrors(t *testing.T) {
	t.Run("capacity below reserved seats", func(t *testing.T) {
		// The store refuses to shrink total_capacity under the seats
		// already claimed; the handler surfaces that as a conflict.
		rec, env := updateEvent(t, &fakeEventStore{updateErr: repository.ErrCapacityTooSmall})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("unknown event", func(t *testing.T) {
		rec, env := updateEvent(t, &fakeEventStore{updateErr: repository.ErrEventNotFound})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("success passes the stored row through", func(t *testing.T) {
		rec, env := updateEvent(t, &fakeEventStore{updated: &model.Event{ID: 3, Title: "Go Conference 2026"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})
}
