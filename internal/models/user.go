package models

import "time"

// User is a locally registered account. Passwords are stored only as bcrypt
// hashes; the hash never leaves the auth store's persistence layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Birthday     string    `json:"birthday,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
