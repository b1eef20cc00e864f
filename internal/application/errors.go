package application

import "errors"

// Error kinds shared by all workflows. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("io")
	ErrDependency = errors.New("dependency")
)

// Error carries a user-facing message next to its kind and cause.
// Error() returns only the message so it can go straight into a response body.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func NotFound(msg string, cause error) error {
	return &Error{Kind: ErrNotFound, Message: msg, Err: cause}
}

// IO reports a filesystem failure using the underlying message.
func IO(cause error) error {
	return &Error{Kind: ErrIO, Message: cause.Error(), Err: cause}
}

func Dependency(msg string, cause error) error {
	return &Error{Kind: ErrDependency, Message: msg, Err: cause}
}

// Outcome maps an error to the status text used in use case logs and spans.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_FAILED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrIO):
		return "IO_FAILED"
	case errors.Is(err, ErrDependency):
		return "DEPENDENCY_FAILED"
	default:
		return "ERROR"
	}
}
