package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item request not found")
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrEmptyDescription    = apperror.Validation("description cannot be empty")
	ErrInvalidPageSettings = apperror.Validation("from must be >= 0 and size must be > 0")
)

// ItemRequest is a user's call for an item nobody offers yet.
type ItemRequest struct {
	ID          string
	Description string
	RequestorID string
	Created     time.Time
	Items       []*AnsweringItem
}

// AnsweringItem is an item created in response to a request.
type AnsweringItem struct {
	ID      string
	Name    string
	OwnerID string
}

// Filter defines parameters for listing item requests.
type Filter struct {
	RequestorID        string
	ExcludeRequestorID string
	Offset             int
	Limit              int // 0 means no limit
}
