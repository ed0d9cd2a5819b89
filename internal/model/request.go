package model

import "time"

// RequestStatus is the lifecycle state of a borrow request.
type RequestStatus string

// Request statuses. Pending and approved are the only non-terminal states.
const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestDeclined  RequestStatus = "declined"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestDeclined, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s RequestStatus) Terminal() bool {
	return s == RequestDeclined || s == RequestCompleted || s == RequestCancelled
}

// Request is a borrow proposal made by one user against another user's item.
type Request struct {
	ID          string        `json:"id" db:"id"`
	ItemID      string        `json:"item_id" db:"item_id"`
	RequesterID string        `json:"requester_id" db:"requester_id"`
	Status      RequestStatus `json:"status" db:"status"`
	Message     string        `json:"message,omitempty" db:"message"`
	StartDate   *time.Time    `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty" db:"responded_at"`

	// Joined fields (not always populated).
	ItemTitle          string `json:"item_title,omitempty" db:"item_title"`
	ItemOwnerID        string `json:"item_owner_id,omitempty" db:"item_owner_id"`
	RequesterFirstName string `json:"requester_first_name,omitempty" db:"requester_first_name"`
	RequesterLastName  string `json:"requester_last_name,omitempty" db:"requester_last_name"`
}
