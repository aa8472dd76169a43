package domain

import "time"

// Booking links one user to one room. A booked room has exactly one.
type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}
