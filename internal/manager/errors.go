package manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// notReadyError signals a predict call against an unloaded session. Distinct
// from a predict-time invocation failure, and mapped to 503 by the HTTP layer.
type notReadyError struct{}

func (notReadyError) Error() string { return "model not loaded" }

// StatusCode implements the HTTP layer's HTTPError interface.
func (notReadyError) StatusCode() int { return 503 }

// ErrNotReady returns the not-loaded error.
func ErrNotReady() error { return notReadyError{} }

// IsNotReady reports whether err indicates the session has no loaded model.
func IsNotReady(err error) bool {
	var e notReadyError
	return errors.As(err, &e)
}

// noLoadStrategyError is the terminal load-resolution failure: every tier was
// attempted or skipped and none produced a handle. It carries the full trace
// and the observed directory contents, which are the only visibility an
// operator has into an opaque third-party bundle.
type noLoadStrategyError struct {
	dir   string
	trace []types.TraceEntry
	files []types.FileEntry
	cause error
}

func (e noLoadStrategyError) Error() string {
	var b strings.Builder
	b.WriteString("no load strategy succeeded")
	if e.dir != "" {
		fmt.Fprintf(&b, " for %s", e.dir)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	for _, t := range e.trace {
		fmt.Fprintf(&b, "\n  %s: %s", t.Strategy, t.Outcome)
		if t.Reason != "" {
			fmt.Fprintf(&b, " (%s)", t.Reason)
		}
	}
	if len(e.files) > 0 {
		b.WriteString("\nobserved files:")
		for _, f := range e.files {
			fmt.Fprintf(&b, "\n  %s (%d bytes)", f.Path, f.SizeBytes)
		}
	}
	return b.String()
}

func (e noLoadStrategyError) Unwrap() error { return e.cause }

// IsNoLoadStrategy reports whether err is the terminal load failure.
func IsNoLoadStrategy(err error) bool {
	var e noLoadStrategyError
	return errors.As(err, &e)
}

// LoadTrace returns the resolution trace carried by a terminal load failure.
func LoadTrace(err error) []types.TraceEntry {
	var e noLoadStrategyError
	if errors.As(err, &e) {
		return e.trace
	}
	return nil
}

// noPredictStrategyError signals that every applicable predict candidate was
// exhausted. It names every candidate that was tried.
type noPredictStrategyError struct{ tried []string }

func (e noPredictStrategyError) Error() string {
	return fmt.Sprintf("no compatible predict function found; tried: %s",
		strings.Join(e.tried, ", "))
}

// IsNoPredictStrategy reports whether err indicates predict candidate
// exhaustion.
func IsNoPredictStrategy(err error) bool {
	var e noPredictStrategyError
	return errors.As(err, &e)
}

// predictInvocationError wraps a failure raised while actually invoking the
// chosen predict path. Terminal for the request; never retried.
type predictInvocationError struct {
	name  string
	cause error
}

func (e predictInvocationError) Error() string {
	return fmt.Sprintf("predict via %q failed: %v", e.name, e.cause)
}

func (e predictInvocationError) Unwrap() error { return e.cause }

// IsPredictInvocation reports whether err was raised by the predict call
// itself rather than by dispatch.
func IsPredictInvocation(err error) bool {
	var e predictInvocationError
	return errors.As(err, &e)
}
