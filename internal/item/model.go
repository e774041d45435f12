package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrOwnerNotFound       = apperror.NotFound("user not found")
	ErrRequestNotFound     = apperror.NotFound("item request not found")
	ErrEmptyName           = apperror.Validation("name cannot be empty")
	ErrEmptyDescription    = apperror.Validation("description cannot be empty")
	ErrAvailableRequired   = apperror.Validation("available is required")
	ErrEmptyComment        = apperror.Validation("comment text cannot be empty")
	ErrNoFinishedBooking   = apperror.Validation("user must complete an approved booking of the item before commenting")
	ErrNotOwner            = apperror.Forbidden("only the owner can modify the item")
	ErrInvalidPageSettings = apperror.Validation("from must be >= 0 and size must be > 0")
)

// Item is a thing a user offers for rent.
type Item struct {
	ID          string
	Name        string
	Description string
	Available   bool
	OwnerID     string
	RequestID   *string // Set when the item answers an item request
	CreatedAt   time.Time
}

// Comment is left by a renter after a finished booking.
type Comment struct {
	ID         string
	Text       string
	ItemID     string
	AuthorID   string
	AuthorName string
	Created    time.Time
}

// BookingBrief summarizes an approved booking of an item for the owner's view.
type BookingBrief struct {
	ID       string
	BookerID string
	Start    time.Time
	End      time.Time
}

// Detail is an item with its derived booking neighbours and comments.
// LastBooking and NextBooking are only filled in for the owner.
type Detail struct {
	Item        *Item
	LastBooking *BookingBrief
	NextBooking *BookingBrief
	Comments    []*Comment
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID       string
	Text          string // Case-insensitive match on name or description
	AvailableOnly bool
	Offset        int
	Limit         int
}
