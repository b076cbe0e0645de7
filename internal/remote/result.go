package remote

import "fmt"

type ErrorKind string

const (
	// ErrNetwork covers timeouts, DNS failures and refused connections.
	ErrNetwork ErrorKind = "network"
	// ErrStatus is a non-2xx response.
	ErrStatus ErrorKind = "status"
	// ErrDecode is a 2xx response whose body could not be understood.
	ErrDecode ErrorKind = "decode"
	// ErrRejected is a 2xx response carrying success=false.
	ErrRejected ErrorKind = "rejected"
)

// ErrorInfo describes why a remote operation did not succeed. Callers that
// only need to branch look at Result.Success; the detail is here for those
// that want it.
type ErrorInfo struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *ErrorInfo) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrorInfo) Unwrap() error { return e.Err }

// Result is the normalized outcome of every remote operation.
type Result[T any] struct {
	Success bool
	Data    T
	Error   *ErrorInfo
}

func succeed[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](info *ErrorInfo) Result[T] {
	return Result[T]{Error: info}
}
