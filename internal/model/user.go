package model

import "time"

// Role enumerates the two account kinds understood by the service.
// Loaders create and edit loading reports; managers review them.
const (
	RoleLoader  = "loader"  // users.role = 'loader'
	RoleManager = "manager" // users.role = 'manager'
)

// User represents an account that can sign in to the application.
// Passwords are stored as bcrypt hashes and never leave the server.
//
// Fields:
//  ID           – primary key (UUID).
//  Username     – unique login name.
//  PasswordHash – bcrypt hash of the password.
//  Role         – account role ('loader' or 'manager').
//  CreatedAt    – creation timestamp.
type User struct {
	ID           string    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
