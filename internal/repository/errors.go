// Package repository implements MySQL persistence for users, events and
// reservations.  Sentinel errors defined here let handlers and services
// distinguish failure scenarios without inspecting driver errors: for
// example ErrSoldOut maps to HTTP 409 while ErrEventNotFound maps to 404.
package repository

import "errors"

// ErrEmailExists is returned when a user row cannot be inserted because
// the email is already taken (unique index on users.email).
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEventNotFound is returned when an event does not exist, or is not
// PUBLISHED in contexts that only expose published events.
var ErrEventNotFound = errors.New("event not found")

// ErrSoldOut is returned when a booking would push reserved_seats past
// total_capacity.  The condition persists; callers must not retry blindly.
var ErrSoldOut = errors.New("event is sold out")

// ErrAlreadyBooked is returned when the (user_id, event_id) unique key
// rejects a second reservation row for the same pair.
var ErrAlreadyBooked = errors.New("event already booked by this user")

// ErrReservationNotFound is returned when no reservation matches the
// lookup, including ownership-scoped lookups.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrCapacityTooSmall is returned when an admin edit would set
// total_capacity below the seats already reserved.
var ErrCapacityTooSmall = errors.New("total capacity below reserved seats")
