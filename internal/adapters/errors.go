package adapters

import (
	"errors"
	"fmt"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// undetectedError signals that no suffix or directory marker matched.
type undetectedError struct{ path string }

func (e undetectedError) Error() string {
	return fmt.Sprintf("could not detect framework for %s", e.path)
}

// IsUndetected reports whether err indicates framework detection failed.
func IsUndetected(err error) bool {
	var e undetectedError
	return errors.As(err, &e)
}

// loadError signals an adapter-specific load failure (missing runtime
// dependency, corrupt file). Never silently swallowed.
type loadError struct {
	framework types.Framework
	cause     error
}

func (e loadError) Error() string {
	return fmt.Sprintf("%s adapter: %v", e.framework, e.cause)
}

func (e loadError) Unwrap() error { return e.cause }

// NewLoadError wraps cause as a load failure of the given framework's adapter.
func NewLoadError(fw types.Framework, cause error) error {
	return loadError{framework: fw, cause: cause}
}

// IsLoadError reports whether err is an adapter load failure.
func IsLoadError(err error) bool {
	var e loadError
	return errors.As(err, &e)
}

// errRuntimeUnavailable builds the load failure reported when a framework has
// no runtime linked into this build.
func errRuntimeUnavailable(fw types.Framework) error {
	return NewLoadError(fw, fmt.Errorf("no %s runtime is linked into this server; "+
		"package the model with an entry point or a %s runtime build", fw, fw))
}
