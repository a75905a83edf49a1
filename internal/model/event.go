package model

import "time"

// Event publication states.  Only PUBLISHED events are visible to
// participants and bookable.
const (
	EventStatusDraft     = "DRAFT"
	EventStatusPublished = "PUBLISHED"
	EventStatusCanceled  = "CANCELED"
)

// ValidEventStatus reports whether s is one of the known event states.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCanceled:
		return true
	}
	return false
}

// Event mirrors the `events` table.  ReservedSeats is the contended
// counter guarded by the reservation flow: after every reservation
// transition 0 <= ReservedSeats <= TotalCapacity must hold.  The
// counter is only ever moved through the repository's conditional
// single-statement updates, never through read-modify-write.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – event title.
//  Description   – free-form description.
//  Date          – scheduled date/time in UTC.
//  Location      – venue description.
//  TotalCapacity – seat capacity, at least 1.
//  Status        – DRAFT, PUBLISHED or CANCELED.
//  ReservedSeats – seats currently counted as taken.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Event struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	TotalCapacity uint32    `json:"totalCapacity"`
	Status        string    `json:"status"`
	ReservedSeats uint32    `json:"reservedSeats"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
