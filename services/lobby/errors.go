package lobby

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrAlreadyMember     = fmt.Errorf("%w: already a member", ErrConflict)
	ErrFull              = errors.New("room is full")
	ErrAuthorization     = errors.New("not allowed")
	ErrNotReady          = errors.New("room is not ready to start")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotJoinable       = fmt.Errorf("%w: room is not accepting players", ErrInvalidTransition)
	ErrUnavailable       = errors.New("backend unavailable")
	// ErrStaleWrite is returned by stores when an insert lost a race on a unique code.
	// Stores retry it; it never reaches callers of lobby.Service.
	ErrStaleWrite = errors.New("stale write")
)

// Wire codes for errors crossing the HTTP boundary. Order matters: the most specific
// sentinel is checked first since some wrap others.
var errorCodes = []struct {
	err  error
	code string
}{
	{ErrAlreadyMember, "ALREADY_MEMBER"},
	{ErrNotJoinable, "NOT_JOINABLE"},
	{ErrValidation, "VALIDATION"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrConflict, "CONFLICT"},
	{ErrFull, "CAPACITY"},
	{ErrAuthorization, "AUTHORIZATION"},
	{ErrNotReady, "NOT_READY"},
	{ErrInvalidTransition, "INVALID_TRANSITION"},
	{ErrUnavailable, "UNAVAILABLE"},
	{ErrStaleWrite, "STALE_WRITE"},
}

// ErrorCode returns the wire code of err, or "INTERNAL" when it is not part of the taxonomy
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "INTERNAL"
}

// ErrorFromCode rebuilds a taxonomy error from its wire code, keeping the server message
func ErrorFromCode(code, message string) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			if message == "" || message == ec.err.Error() {
				return ec.err
			}
			return fmt.Errorf("%w: %s", ec.err, message)
		}
	}
	return fmt.Errorf("unexpected error %s: %s", code, message)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
