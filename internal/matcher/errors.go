package matcher

import (
	"errors"
	"fmt"
)

// CompileError reports a malformed expression. It is returned by every
// Parse function of this package and by the path and format parsers.
type CompileError struct {
	// Kind names the expression family, e.g. "record matcher" or "path".
	Kind string

	// Input is the complete expression text.
	Input string

	// Offset is the byte offset of the offending input.
	Offset int

	// Reason describes what went wrong.
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s at %s", e.Kind, e.Input, e.Reason, e.Snippet())
}

// Snippet returns a quoted excerpt of the input starting at the offending
// offset, or "end of input".
func (e *CompileError) Snippet() string {
	if e.Offset >= len(e.Input) {
		return "end of input"
	}
	rest := e.Input[e.Offset:]
	if len(rest) > 20 {
		rest = rest[:20] + "..."
	}
	return fmt.Sprintf("%q", rest)
}

// IsCompileError returns true if err is (or wraps) a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
