package model

import "time"

// Rating scores one party of a completed exchange.
type Rating struct {
	ID         string    `json:"id" db:"id"`
	RequestID  string    `json:"request_id" db:"request_id"`
	FromUserID string    `json:"from_user_id" db:"from_user_id"`
	ToUserID   string    `json:"to_user_id" db:"to_user_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Joined fields (not always populated).
	FromFirstName string `json:"from_first_name,omitempty" db:"from_first_name"`
	FromLastName  string `json:"from_last_name,omitempty" db:"from_last_name"`
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)
