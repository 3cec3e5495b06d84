package models

import "time"

// User is a row in the user directory. The auth provider owns writes to this
// table; the rest of the application only reads it to resolve identities.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
