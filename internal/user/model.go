package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrEmailRequired      = apperror.Validation("email is required")
	ErrNameRequired       = apperror.Validation("name is required")
	ErrPasswordTooShort   = apperror.Validation("password is too short")
	ErrForbidden          = apperror.Forbidden("users may only modify their own account")
)

// User represents a registered user. Users act as item owners and bookers.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email string
	Name  string

	Page     int
	PageSize int
}
