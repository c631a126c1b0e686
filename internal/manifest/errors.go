package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// syntaxError wraps a malformed-JSON failure, keeping the byte offset when the
// decoder provides one.
type syntaxError struct {
	offset int64
	cause  error
}

func newSyntaxError(cause error) error {
	var je *json.SyntaxError
	if errors.As(cause, &je) {
		return syntaxError{offset: je.Offset, cause: cause}
	}
	return syntaxError{cause: cause}
}

func (e syntaxError) Error() string {
	if e.offset > 0 {
		return fmt.Sprintf("malformed %s at byte %d: %v", FileName, e.offset, e.cause)
	}
	return fmt.Sprintf("malformed %s: %v", FileName, e.cause)
}

func (e syntaxError) Unwrap() error { return e.cause }

// IsSyntaxError reports whether err indicates a malformed manifest document.
func IsSyntaxError(err error) bool {
	var e syntaxError
	return errors.As(err, &e)
}

// missingFieldError signals a required manifest field is absent.
type missingFieldError struct{ field string }

func (e missingFieldError) Error() string {
	return fmt.Sprintf("%s: required field %q is missing", FileName, e.field)
}

// IsMissingField reports whether err indicates a missing required field.
func IsMissingField(err error) bool {
	var e missingFieldError
	return errors.As(err, &e)
}

// MissingField returns the field name carried by a missing-field error, or "".
func MissingField(err error) string {
	var e missingFieldError
	if errors.As(err, &e) {
		return e.field
	}
	return ""
}

// invalidFieldError signals a present field with an unusable value.
type invalidFieldError struct {
	field  string
	reason string
}

func (e invalidFieldError) Error() string {
	return fmt.Sprintf("%s: field %q is invalid: %s", FileName, e.field, e.reason)
}

// IsInvalidField reports whether err indicates a field with an invalid value.
func IsInvalidField(err error) bool {
	var e invalidFieldError
	return errors.As(err, &e)
}

// invalidArgError signals an argument token outside the closed vocabulary.
// Unknown tokens are a validation failure, never a silent skip.
type invalidArgError struct{ token string }

func (e invalidArgError) Error() string {
	return fmt.Sprintf("%s: invalid argument %q; must be one of: %s",
		FileName, e.token, strings.Join(AllowedArgs(), ", "))
}

// IsInvalidArg reports whether err indicates an unknown argument token.
func IsInvalidArg(err error) bool {
	var e invalidArgError
	return errors.As(err, &e)
}

// InvalidArgToken returns the offending token carried by an invalid-arg error,
// or "".
func InvalidArgToken(err error) string {
	var e invalidArgError
	if errors.As(err, &e) {
		return e.token
	}
	return ""
}
