// Package service holds the auth and reservation business logic on top
// of the repository stores.  Stores are consumed through small
// interfaces so the rules can be tested without a database.
package service

import "errors"

// ErrInvalidCredentials is the single failure reported for a login with
// an unknown email or a wrong password.  The two cases are deliberately
// indistinguishable to prevent user enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidStatus is returned when an admin status update names a
// status that is not a valid adjudication target.
var ErrInvalidStatus = errors.New("invalid reservation status")

// ErrReopenNotAllowed is returned when an admin tries to confirm a
// reservation whose seat has already been released (REFUSED/CANCELED).
// Re-opening would corrupt the seat accounting.
var ErrReopenNotAllowed = errors.New("cannot confirm a refused or canceled reservation")

// ErrAlreadyCanceled is returned when a participant cancels a
// reservation that is already canceled.
var ErrAlreadyCanceled = errors.New("reservation already canceled")

// ErrNotConfirmed is returned when a ticket is requested for a
// reservation that is not CONFIRMED.
var ErrNotConfirmed = errors.New("ticket available only for confirmed reservations")
