package booking

import (
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrUserNotFound     = apperror.NotFound("user not found")
	ErrItemNotFound     = apperror.NotFound("item not found")
	ErrOwnItem          = apperror.NotFound("owner cannot book own item")
	ErrTimeRequired     = apperror.Validation("start and end are required")
	ErrInvalidTimeRange = apperror.Validation("end must be after start")
	ErrItemUnavailable  = apperror.Validation("item is not available for booking")
	ErrUnknownState     = apperror.Validation("unknown state")
	ErrInvalidPage      = apperror.Validation("from must be >= 0 and size must be > 0")
	ErrNotItemOwner     = apperror.Forbidden("only the item owner can approve or reject a booking")
	ErrAlreadyProcessed = apperror.Conflict("booking has already been processed")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Decide returns the status an owner's decision moves a booking to.
// Only WAITING bookings can be decided.
func (s Status) Decide(approved bool) (Status, error) {
	if s != StatusWaiting {
		return s, ErrAlreadyProcessed
	}
	if approved {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}

// State selects bookings by status or by position relative to now.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState parses a state token case-insensitively. An empty token means ALL.
func ParseState(token string) (State, error) {
	if strings.TrimSpace(token) == "" {
		return StateAll, nil
	}
	switch st := State(strings.ToUpper(strings.TrimSpace(token))); st {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	}
	return "", ErrUnknownState.WithMessage("Unknown state: " + token)
}

// Matches reports whether b belongs to st as observed at now.
func (st State) Matches(b *Booking, now time.Time) bool {
	switch st {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	return false
}

type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Start       time.Time
	End         time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing bookings.
// Exactly one of BookerID and OwnerID is expected to be set.
type Filter struct {
	BookerID string
	OwnerID  string
	State    State
	Now      time.Time
	Offset   int
	Limit    int
}
