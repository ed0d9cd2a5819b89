package model

import (
	"errors"
	"time"
)

// User is a marketplace member. Any user can both list and borrow items.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	Location     string    `json:"location,omitempty" db:"location"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserStats summarizes a user's activity on their public profile.
type UserStats struct {
	ItemsListed            int     `json:"items_listed" db:"items_listed"`
	ItemsBorrowed          int     `json:"items_borrowed" db:"items_borrowed"`
	ItemsLent              int     `json:"items_lent" db:"items_lent"`
	AverageRating          float64 `json:"average_rating" db:"average_rating"`
	TotalRatings           int     `json:"total_ratings" db:"total_ratings"`
	SuccessfulTransactions int     `json:"successful_transactions" db:"successful_transactions"`
	PendingRequests        int     `json:"pending_requests" db:"pending_requests"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrPasswordTooShort is returned by ValidatePassword.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
