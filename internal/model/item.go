package model

import "time"

// ItemStatus is the borrowing state of a listed item.
type ItemStatus string

// Item statuses.
const (
	ItemAvailable   ItemStatus = "available"
	ItemRequested   ItemStatus = "requested"
	ItemBorrowed    ItemStatus = "borrowed"
	ItemUnavailable ItemStatus = "unavailable"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemRequested, ItemBorrowed, ItemUnavailable:
		return true
	}
	return false
}

// Item categories.
const (
	CategoryLaptop     = "laptop"
	CategoryMonitor    = "monitor"
	CategoryPeripheral = "peripheral"
	CategoryAudio      = "audio"
	CategoryTablet     = "tablet"
	CategoryOther      = "other"
)

// Item conditions.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
)

var categories = map[string]bool{
	CategoryLaptop:     true,
	CategoryMonitor:    true,
	CategoryPeripheral: true,
	CategoryAudio:      true,
	CategoryTablet:     true,
	CategoryOther:      true,
}

var conditions = map[string]bool{
	ConditionNew:     true,
	ConditionLikeNew: true,
	ConditionGood:    true,
	ConditionFair:    true,
}

// ValidCategory reports whether c is a known item category.
func ValidCategory(c string) bool { return categories[c] }

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool { return conditions[c] }

// Item is a piece of equipment listed for sharing.
type Item struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	Condition   string     `json:"condition" db:"condition"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	Status      ItemStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Joined fields (not always populated).
	OwnerFirstName string `json:"owner_first_name,omitempty" db:"owner_first_name"`
	OwnerLastName  string `json:"owner_last_name,omitempty" db:"owner_last_name"`
}

// ItemFilter narrows item listings. Zero values match everything.
type ItemFilter struct {
	Status   ItemStatus
	Category string
	OwnerID  string
}
