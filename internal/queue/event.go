// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when an admin confirms a
// reservation.  It carries enough information for downstream consumers
// to log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	UserFullName  string `json:"user_full_name"`
	UserEmail     string `json:"user_email"`
	EventID       uint64 `json:"event_id"`
	EventTitle    string `json:"event_title"`
	EventDate     string `json:"event_date"`
	EventLocation string `json:"event_location"`
	ConfirmedAt   string `json:"confirmed_at"`
}
