package model

import "time"

// User is a registered customer identified by email address.  Bookings
// reference users by email, mirroring the primary key of the users table.
//
// Fields:
//
//	Email        – primary key, the user's identity everywhere else.
//	FirstName    – given name.
//	LastName     – family name.
//	Phone        – contact phone number, free-form.
//	PasswordHash – bcrypt hash of the user's password.
//	CreatedAt    – registration timestamp.
type User struct {
	Email        string    `json:"email"`      // users.email
	FirstName    string    `json:"first_name"` // users.first_name
	LastName     string    `json:"last_name"`  // users.last_name
	Phone        string    `json:"phone"`      // users.phone
	PasswordHash string    `json:"-"`          // users.password_hash, never serialized
	CreatedAt    time.Time `json:"created_at"` // users.created_at
}
