package repository

import (
	"context"
	"database/sql"

	"github.com/eventflow/event-booking/internal/model"
)

// EventRepo persists events and owns the seat counter.  The counter is
// only moved through ReserveSeat/ReleaseSeat (and their Tx variants),
// which perform the capacity check and the increment in a single
// conditional UPDATE so concurrent bookings can never overshoot
// total_capacity.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventColumns = "id,title,description,date,location,total_capacity,status,reserved_seats,created_at,updated_at"

func scanEvent(row *sql.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.TotalCapacity, &e.Status, &e.ReservedSeats, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an event and populates the generated ID and timestamps.
// reserved_seats always starts at 0 regardless of the input.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (title, description, date, location, total_capacity, status, reserved_seats) VALUES (?,?,?,?,?,?,0)",
		e.Title, e.Description, e.Date.UTC(), e.Location, e.TotalCapacity, e.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	fresh, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

// GetByID returns an event in any publication state.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
}

// GetPublishedByID returns an event only when it is PUBLISHED.  Draft and
// canceled events are indistinguishable from missing ones for participants.
func (r *EventRepo) GetPublishedByID(ctx context.Context, id uint64) (*model.Event, error) {
	return scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? AND status=? LIMIT 1",
		id, model.EventStatusPublished))
}

func (r *EventRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
			&e.TotalCapacity, &e.Status, &e.ReservedSeats, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// List returns all events regardless of status, soonest first (admin view).
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, "SELECT "+eventColumns+" FROM events ORDER BY date ASC")
}

// ListPublished returns the participant-facing catalogue: PUBLISHED
// events ordered by date ascending.
func (r *EventRepo) ListPublished(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, "SELECT "+eventColumns+" FROM events WHERE status=? ORDER BY date ASC",
		model.EventStatusPublished)
}

// Update rewrites the administrative fields of an event.  The seat
// counter is deliberately excluded; it only moves through
// ReserveSeat/ReleaseSeat.  The WHERE clause refuses a capacity below
// the seats already reserved, so reserved_seats <= total_capacity
// survives admin edits too.
func (r *EventRepo) Update(ctx context.Context, id uint64, e *model.Event) (*model.Event, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET title=?, description=?, date=?, location=?, total_capacity=?, status=? WHERE id=? AND reserved_seats <= ?",
		e.Title, e.Description, e.Date.UTC(), e.Location, e.TotalCapacity, e.Status, id, e.TotalCapacity)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrCapacityTooSmall
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event row.  ErrEventNotFound when the id is unknown.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ReserveSeatTx claims one seat inside an existing transaction.  The
// capacity check and the increment are a single statement: the UPDATE
// matches only while the event is PUBLISHED and capacity remains, so two
// concurrent bookings for the last seat cannot both succeed.  When no
// row is affected, a follow-up read under the same transaction
// classifies the failure into ErrEventNotFound or ErrSoldOut.
func (r *EventRepo) ReserveSeatTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE events SET reserved_seats = reserved_seats + 1 WHERE id=? AND status=? AND reserved_seats < total_capacity",
		eventID, model.EventStatusPublished)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM events WHERE id=? LIMIT 1", eventID).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}
	if status != model.EventStatusPublished {
		return ErrEventNotFound
	}
	return ErrSoldOut
}

// ReleaseSeat returns one seat to the pool.  The decrement is floored at
// zero in the statement itself; releasing a seat that was never counted
// is a no-op rather than an underflow.
func (r *EventRepo) ReleaseSeat(ctx context.Context, eventID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE events SET reserved_seats = reserved_seats - 1 WHERE id=? AND reserved_seats > 0",
		eventID)
	return err
}
