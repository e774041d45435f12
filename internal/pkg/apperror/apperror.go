package apperror

import "net/http"

// Kind classifies an AppError. Every Kind maps to exactly one HTTP status.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindConflict
	KindForbidden
	KindUnauthorized
)

// kindStatus is the transport mapping. Keep it total over the declared kinds.
var kindStatus = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindValidation:   http.StatusBadRequest,
	KindConflict:     http.StatusConflict,
	KindForbidden:    http.StatusForbidden,
	KindUnauthorized: http.StatusUnauthorized,
}

// Kinds returns all declared kinds.
func Kinds() []Kind {
	return []Kind{KindNotFound, KindValidation, KindConflict, KindForbidden, KindUnauthorized}
}

// HTTPStatus returns the status code for kind, or 500 for an unknown kind.
func HTTPStatus(kind Kind) int {
	if code, ok := kindStatus[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// AppError is a custom error type that carries an error kind and a user-facing message.
type AppError struct {
	Kind    Kind   // Error classification, mapped to an HTTP status at the edge
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code of the error kind.
func (e *AppError) Status() int {
	return HTTPStatus(e.Kind)
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a new AppError of the same kind with a more specific message.
// It wraps e, so errors.Is(err, e) still holds.
func (e *AppError) WithMessage(message string) *AppError {
	return Wrap(e, e.Kind, message)
}

// Shorthand constructors.

func NotFound(message string) *AppError     { return New(KindNotFound, message) }
func Validation(message string) *AppError   { return New(KindValidation, message) }
func Conflict(message string) *AppError     { return New(KindConflict, message) }
func Forbidden(message string) *AppError    { return New(KindForbidden, message) }
func Unauthorized(message string) *AppError { return New(KindUnauthorized, message) }
