package service

// Kind classifies a service failure so the HTTP layer can pick a status code.
// Services surface exactly one error type; callers differentiate by Kind and
// message only.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindConflict
	KindInvalid
)

// Error is the single error kind returned by all game services.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrNotFound reports a missing entity.
func ErrNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// ErrForbidden reports a failed host/operator/membership check.
func ErrForbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// ErrConflict reports an operation invalid for the current lifecycle state.
func ErrConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// ErrInvalid reports rejected input.
func ErrInvalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Message: msg}
}
