package routes

import (
	"errors"
	"fmt"
	"go/token"
)

// ErrRegistryUnavailable is wrapped by errors that prevent a Registry from
// producing descriptors, such as packages that fail to load.
var ErrRegistryUnavailable = errors.New("type registry unavailable")

// MarkerReadError reports a route marker that could not be read.
type MarkerReadError struct {
	Pos       token.Position
	Directive string // e.g. "//route:path"
	Message   string
}

func (e *MarkerReadError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Directive, e.Message)
}

// MarkerErrorf creates a MarkerReadError with a formatted message.
func MarkerErrorf(pos token.Position, directive, format string, args ...any) *MarkerReadError {
	return &MarkerReadError{
		Pos:       pos,
		Directive: directive,
		Message:   fmt.Sprintf(format, args...),
	}
}
