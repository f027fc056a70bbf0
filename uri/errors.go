package uri

import (
	"fmt"

	"github.com/ghettovoice/httpkit/internal/errorutil"
	"github.com/ghettovoice/httpkit/internal/grammar"
)

// Error is a URI error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrPortRange is returned when a port is outside of [0, 65535].
	ErrPortRange Error = "port out of range"
	// ErrStructure matches every [StructuralError].
	ErrStructure Error = "invalid URI structure"
)

// ParseError is returned by [Parse] when the input can not be split into URI components.
// It wraps [grammar.ErrMalformedInput] and, for an out of range port literal, [ErrPortRange].
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("parse URI %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newParseErr(input string, args ...any) error {
	return &ParseError{Input: input, Err: errorutil.NewWrapperError(grammar.ErrMalformedInput, args...)} //errtrace:skip
}

func newPortRangeErr(port any) error {
	return errorutil.NewWrapperError(ErrPortRange, "%v is not within [0, 65535]", port) //errtrace:skip
}

// StructuralError reports a violated rule between components of a URI.
type StructuralError string

func (e StructuralError) Error() string { return string(ErrStructure) + ": " + string(e) }

// Is reports whether target is [ErrStructure].
func (StructuralError) Is(target error) bool { return target == ErrStructure }

const (
	// ErrColonInFirstSegment is returned when a relative-path reference has a colon
	// in its first segment, which would be mistaken for a scheme.
	ErrColonInFirstSegment StructuralError = "a relative-path reference must not have a colon in its first path segment"
	// ErrDoubleSlashPath is returned when the path of a URI without an authority starts with "//".
	ErrDoubleSlashPath StructuralError = `the path of a URI without an authority must not start with "//"`
	// ErrRelativePathWithAuthority is returned when the path of a URI with an authority
	// is neither empty nor starts with "/".
	ErrRelativePathWithAuthority StructuralError = `the path of a URI with an authority must be empty or start with "/"`
	// ErrEmptyHost is returned when a URI has user info or a port but no host.
	ErrEmptyHost StructuralError = "a URI with user info or a port must have a host"
)
