package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Output   []string // Full output for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Output) > 0 {
		fmt.Fprintf(&buf, "\nFull output:\n")
		for i, line := range e.Output {
			fmt.Fprintf(&buf, "  [%d] %q\n", i+1, line)
		}
	}

	return buf.String()
}

// assertOutput compares output line by line. A length mismatch is
// reported once, followed by every differing line in the common prefix.
func assertOutput(expected, actual []string) []*AssertionError {
	var errs []*AssertionError

	if len(expected) != len(actual) {
		errs = append(errs, &AssertionError{
			Type:     "output_length",
			Expected: fmt.Sprintf("%d lines", len(expected)),
			Actual:   fmt.Sprintf("%d lines", len(actual)),
			Output:   actual,
		})
	}

	n := min(len(expected), len(actual))
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			errs = append(errs, &AssertionError{
				Type:     fmt.Sprintf("output_line[%d]", i+1),
				Expected: fmt.Sprintf("%q", expected[i]),
				Actual:   fmt.Sprintf("%q", actual[i]),
				Output:   actual,
			})
		}
	}

	return errs
}

// assertCompileError checks that compilation failed with a message
// containing want. The error message becomes the only output line.
func assertCompileError(want string, err error, result *Result) {
	if err == nil {
		result.AddError((&AssertionError{
			Type:     "compile_error",
			Expected: fmt.Sprintf("error containing %q", want),
			Actual:   "expression compiled",
		}).Error())
		return
	}

	result.Output = append(result.Output, err.Error())
	if !strings.Contains(err.Error(), want) {
		result.AddError((&AssertionError{
			Type:     "compile_error",
			Expected: fmt.Sprintf("error containing %q", want),
			Actual:   err.Error(),
		}).Error())
	}
}
