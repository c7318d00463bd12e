package models

import "time"

// Item listing types.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses. Status is stored as an open string: the write path accepts
// caller-supplied values verbatim and only the default listing filter cares
// about StatusActive.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Item is a lost or found listing. UserID references the owning User and is
// set server-side at creation, never from client input.
type Item struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Color        string    `json:"color"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
