package model

import "time"

// Role names stored in the users.role column and carried in JWT claims.
const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

// ValidRole reports whether r is one of the known role names.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleParticipant
}

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository layer through
// JSON; handlers build separate response projections.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FullName     – display name supplied at registration.
//  Email        – unique, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – "admin" or "participant".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FullName     string    // users.full_name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
