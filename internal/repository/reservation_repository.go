package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/eventflow/event-booking/internal/model"
)

// ReservationRepo provides persistence for reservations.  Booking runs
// inside a transaction so the seat increment and the row insert commit
// or roll back together; read-side joins return typed composite values
// so callers never assume the shape of a nested document.
type ReservationRepo struct {
	DB     *sql.DB
	Events *EventRepo
}

func NewReservationRepo(db *sql.DB, events *EventRepo) *ReservationRepo {
	return &ReservationRepo{DB: db, Events: events}
}

const reservationColumns = "id,user_id,event_id,status,created_at,updated_at"

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.UserID, &res.EventID, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Book creates a PENDING reservation for (userID, eventID) and claims a
// seat, atomically.  Ordering inside the transaction:
//
//  1. conditional seat increment (ReserveSeatTx) – fails with
//     ErrEventNotFound or ErrSoldOut without touching anything;
//  2. INSERT of the reservation row – the unique (user_id, event_id)
//     key rejects duplicates even between the check and the insert of a
//     concurrent request; the rollback then returns the claimed seat.
//
// The loser of a duplicate race observes ErrAlreadyBooked, never a
// silent overwrite.
func (r *ReservationRepo) Book(ctx context.Context, userID, eventID uint64) (*model.Reservation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := r.Events.ReserveSeatTx(ctx, tx, eventID); err != nil {
		return nil, err
	}

	ins, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id, event_id, status) VALUES (?,?,?)",
		userID, eventID, model.ReservationPending)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Query back the full row so timestamps come from the database.
	res, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=?", id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// GetByID returns a reservation regardless of owner (admin paths).
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return scanReservation(r.DB.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? LIMIT 1", id))
}

// GetByIDForUser returns a reservation only when it belongs to userID.
// Ownership is enforced in the query so a participant cannot learn
// whether someone else's reservation id exists.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	return scanReservation(r.DB.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? AND user_id=? LIMIT 1", id, userID))
}

// UpdateStatusFrom sets the status only while the current status is one
// of from, and reports whether a row matched.  Keying the write on the
// previous status closes the window between a caller's snapshot read
// and its write: of two transitions racing out of a seat-holding state,
// exactly one observes updated==true and may release the seat.  The
// connection runs with clientFoundRows, so a no-change write to a row
// in the from set still counts as matched.
func (r *ReservationRepo) UpdateStatusFrom(ctx context.Context, id uint64, status string, from ...string) (bool, error) {
	placeholders := strings.TrimPrefix(strings.Repeat(",?", len(from)), ",")
	args := make([]interface{}, 0, len(from)+2)
	args = append(args, status, id)
	for _, s := range from {
		args = append(args, s)
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=? AND status IN ("+placeholders+")", args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReservationDetail is the participant-facing read model: a reservation
// joined with the event it books.
type ReservationDetail struct {
	ID            uint64    `json:"id"`
	EventID       uint64    `json:"eventId"`
	Status        string    `json:"status"`
	EventTitle    string    `json:"eventTitle"`
	EventDate     time.Time `json:"eventDate"`
	EventLocation string    `json:"eventLocation"`
	EventStatus   string    `json:"eventStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListByUser returns all reservations of a user with event details
// attached, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.event_id, r.status,
	                  e.title, e.date, e.location, e.status,
	                  r.created_at
	           FROM reservations r
	           JOIN events e ON e.id = r.event_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.Status,
			&d.EventTitle, &d.EventDate, &d.EventLocation, &d.EventStatus,
			&d.CreatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ReservationWithUser is the admin-facing read model: a reservation
// joined with the participant who made it.
type ReservationWithUser struct {
	ID           uint64    `json:"id"`
	EventID      uint64    `json:"eventId"`
	Status       string    `json:"status"`
	UserID       uint64    `json:"userId"`
	UserFullName string    `json:"userFullName"`
	UserEmail    string    `json:"userEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListByEvent returns all reservations of an event with user details
// attached, newest first (admin only).
func (r *ReservationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]ReservationWithUser, error) {
	const q = `SELECT r.id, r.event_id, r.status,
	                  u.id, u.full_name, u.email,
	                  r.created_at
	           FROM reservations r
	           JOIN users u ON u.id = r.user_id
	           WHERE r.event_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]ReservationWithUser, 0)
	for rows.Next() {
		var d ReservationWithUser
		if err := rows.Scan(&d.ID, &d.EventID, &d.Status,
			&d.UserID, &d.UserFullName, &d.UserEmail,
			&d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// TicketDetail carries everything the ticket renderer needs: the
// reservation plus its event and participant.
type TicketDetail struct {
	ReservationID uint64
	Status        string
	EventID       uint64
	EventTitle    string
	EventDate     time.Time
	EventLocation string
	UserID        uint64
	UserFullName  string
	UserEmail     string
}

// GetTicketDetail loads the composite ticket view for a reservation
// owned by userID.  ErrReservationNotFound when the reservation does
// not exist or belongs to someone else.
func (r *ReservationRepo) GetTicketDetail(ctx context.Context, id, userID uint64) (*TicketDetail, error) {
	const q = `SELECT r.id, r.status,
	                  e.id, e.title, e.date, e.location,
	                  u.id, u.full_name, u.email
	           FROM reservations r
	           JOIN events e ON e.id = r.event_id
	           JOIN users u ON u.id = r.user_id
	           WHERE r.id = ? AND r.user_id = ?`
	var d TicketDetail
	err := r.DB.QueryRowContext(ctx, q, id, userID).Scan(
		&d.ReservationID, &d.Status,
		&d.EventID, &d.EventTitle, &d.EventDate, &d.EventLocation,
		&d.UserID, &d.UserFullName, &d.UserEmail)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
