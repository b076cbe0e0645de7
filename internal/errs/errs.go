// Package errs defines the user-facing failure taxonomy shared by the
// storefront components. Every failure that reaches the shell carries exactly
// one human-readable message.
package errs

import "errors"

type Kind int

const (
	// KindGate means the user is not authenticated.
	KindGate Kind = iota + 1
	// KindValidation means a selection or form field is missing or malformed.
	KindValidation
	// KindRemote means a remote operation failed or was rejected.
	KindRemote
	// KindStorage means the session store could not persist state.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindValidation:
		return "validation"
	case KindRemote:
		return "remote"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Gate(message string) *Error {
	return &Error{Kind: KindGate, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Remote(message string, cause error) *Error {
	return &Error{Kind: KindRemote, Message: message, Err: cause}
}

func Storage(message string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: cause}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsGate(err error) bool       { return is(err, KindGate) }
func IsValidation(err error) bool { return is(err, KindValidation) }
func IsRemote(err error) bool     { return is(err, KindRemote) }
func IsStorage(err error) bool    { return is(err, KindStorage) }

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// UserMessage returns the text to show for err. Errors outside the taxonomy
// get a generic retry message rather than their internal detail.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
