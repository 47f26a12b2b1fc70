package lint

import (
	"fmt"

	"github.com/roach88/pica/internal/record"
)

// Check is the protocol implemented by every rule type.
type Check interface {
	// Preprocess observes a record during the first pass. It is only
	// called for checks that report NeedsPreprocess.
	Preprocess(r *record.Record)

	// Check reports whether r violates the rule, with a message.
	Check(r *record.Record) (bool, string)

	// Finish is called once after the last record and may report a
	// violation that is not tied to a record.
	Finish() (bool, string)

	// NeedsPreprocess reports whether the check needs a first pass.
	NeedsPreprocess() bool
}

// Level is the severity of a rule.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// ParseLevel validates a level name.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelError, LevelWarning, LevelInfo:
		return l, nil
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Rule is a named, leveled check.
type Rule struct {
	ID          string
	Description string
	Level       Level
	Check       Check
}

// Finding is one rule violation. PPN is empty for findings reported by
// Finish and for records without a PPN.
type Finding struct {
	PPN     string `json:"ppn"`
	RuleID  string `json:"rule"`
	Level   Level  `json:"level"`
	Message string `json:"message,omitempty"`
}

// noPreprocess provides the no-op parts of Check.
type noPreprocess struct{}

func (noPreprocess) Preprocess(*record.Record) {}

func (noPreprocess) Finish() (bool, string) { return false, "" }

func (noPreprocess) NeedsPreprocess() bool { return false }
