// Package models defines the persistent entities of the Found & Loss
// registry. JSON tags follow the public API field names.
package models

import "time"

// User is a registered account. PasswordHash is kept internal and is never
// serialized to callers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
