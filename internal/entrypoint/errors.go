package entrypoint

import (
	"errors"
	"fmt"
)

// bindError signals a failure while loading an entry point. Never retried.
type bindError struct {
	path  string
	cause error
}

func (e bindError) Error() string {
	return fmt.Sprintf("binding entry point %s: %v", e.path, e.cause)
}

func (e bindError) Unwrap() error { return e.cause }

// NewBindError wraps cause as an entry-point bind failure for path.
func NewBindError(path string, cause error) error {
	return bindError{path: path, cause: cause}
}

// IsBindError reports whether err indicates an entry-point bind failure.
func IsBindError(err error) bool {
	var e bindError
	return errors.As(err, &e)
}

// notCallableError signals a name that does not resolve to a callable.
type notCallableError struct {
	path string
	name string
}

func (e notCallableError) Error() string {
	return fmt.Sprintf("no callable %q in %s", e.name, e.path)
}

// IsNotCallable reports whether err indicates a missing or non-function symbol.
func IsNotCallable(err error) bool {
	var e notCallableError
	return errors.As(err, &e)
}

// invokeError wraps a failure raised while calling into user code, including
// recovered panics.
type invokeError struct {
	path  string
	name  string
	cause error
}

func (e invokeError) Error() string {
	return fmt.Sprintf("invoking %q in %s: %v", e.name, e.path, e.cause)
}

func (e invokeError) Unwrap() error { return e.cause }

// IsInvokeError reports whether err was raised inside a unit callable.
func IsInvokeError(err error) bool {
	var e invokeError
	return errors.As(err, &e)
}
