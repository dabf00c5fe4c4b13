package service

import "errors"

// Kind classifies a service error for the transport layer
type Kind int

const (
	// KindValidation means the client payload violates a field rule
	KindValidation Kind = iota + 1
	// KindNotFound means the referenced book does not exist
	KindNotFound
	// KindInternal means an unexpected failure
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is returned by every Service operation that fails
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
