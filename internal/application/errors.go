package application

import "errors"

// ErrorKind classifies service failures for the HTTP boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindDependency
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every service in this package.
// Message is safe to show to callers; Err carries the internal cause and is
// only ever logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ConflictError(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func AuthenticationError(msg string) error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func DependencyError(msg string, cause error) error {
	return &Error{Kind: KindDependency, Message: msg, Err: cause}
}

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnauthorized       = "Unauthorized"
	MsgInternal           = "Something went wrong"
	MsgPasswordTooLong    = "Password must be at most 72 bytes"
)
