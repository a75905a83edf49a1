package model

import "time"

// Reservation lifecycle states.  A reservation is created PENDING and
// adjudicated by an admin (CONFIRMED, REFUSED, CANCELED) or canceled by
// its owner.  REFUSED and CANCELED have already released their seat;
// moving a reservation into one of them a second time must not release
// another seat.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationRefused   = "REFUSED"
	ReservationCanceled  = "CANCELED"
)

// HoldsSeat reports whether a reservation in status s currently counts
// against the event's reserved_seats.
func HoldsSeat(s string) bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// Reservation records a participant's booking for an event.  The
// (UserID, EventID) pair is unique at the storage level; a second row
// for the same pair can never exist, even after cancellation.
type Reservation struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	EventID   uint64    `json:"eventId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
