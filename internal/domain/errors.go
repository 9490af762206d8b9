package domain

import "errors"

// The four error kinds every rule violation in the core maps onto. Handlers
// translate them to HTTP statuses; anything that doesn't wrap one of these is
// treated as an unexpected server error and reported generically.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// Error carries a caller-facing message together with its kind. errors.Is
// against one of the kind sentinels above resolves the kind via Unwrap.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func BadRequest(msg string) error { return &Error{kind: ErrBadRequest, msg: msg} }

func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

func Conflict(msg string) error { return &Error{kind: ErrConflict, msg: msg} }

func Forbidden(msg string) error { return &Error{kind: ErrForbidden, msg: msg} }
