package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pica/internal/format"
	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/path"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Kind selects the expression language: filter, query or format.
	Kind string `yaml:"kind"`

	// Expr is the expression under test.
	Expr string `yaml:"expr"`

	// Options tune evaluation. Unset fields keep their defaults.
	Options Options `yaml:"options,omitempty"`

	// Records are the inputs in display form, one record per entry.
	Records []string `yaml:"records"`

	// Expect lists the exact output lines.
	Expect []string `yaml:"expect,omitempty"`

	// Error is a substring of the expected compile error. A scenario with
	// Error set must fail to compile.
	Error string `yaml:"error,omitempty"`

	// Golden compares the output against testdata/golden/{Name}.golden.
	Golden bool `yaml:"golden,omitempty"`
}

// Options mirror the evaluation knobs of the command line.
type Options struct {
	CaseIgnore       bool     `yaml:"case_ignore,omitempty"`
	StrsimThreshold  *float64 `yaml:"strsim_threshold,omitempty"`
	Separator        string   `yaml:"separator,omitempty"`
	Squash           bool     `yaml:"squash,omitempty"`
	Merge            bool     `yaml:"merge,omitempty"`
	KeepOverreadChar bool     `yaml:"keep_overread_char,omitempty"`
}

func (o Options) matcherOptions() matcher.Options {
	opts := *matcher.DefaultOptions()
	opts.CaseIgnore = o.CaseIgnore
	if o.StrsimThreshold != nil {
		opts.StrsimThreshold = *o.StrsimThreshold
	}
	return opts
}

func (o Options) pathOptions() *path.Options {
	opts := path.DefaultOptions()
	opts.Options = o.matcherOptions()
	if o.Separator != "" {
		opts.Separator = o.Separator
	}
	opts.Squash = o.Squash
	opts.Merge = o.Merge
	return opts
}

func (o Options) formatOptions() *format.Options {
	opts := format.DefaultOptions()
	opts.Options = o.matcherOptions()
	opts.StripOverreadChar = !o.KeepOverreadChar
	return opts
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, ordered by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", filepath.Base(p), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(p)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Kind {
	case KindFilter, KindQuery, KindFormat:
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown kind %q (want filter, query or format)", s.Kind)
	}

	if s.Expr == "" {
		return fmt.Errorf("expr is required")
	}

	if s.Options.StrsimThreshold != nil {
		if t := *s.Options.StrsimThreshold; t < 0 || t > 1 {
			return fmt.Errorf("options.strsim_threshold must be in [0, 1], got %v", t)
		}
	}

	if s.Error != "" {
		if len(s.Expect) > 0 || s.Golden {
			return fmt.Errorf("error cannot be combined with expect or golden")
		}
		return nil
	}

	if len(s.Records) == 0 {
		return fmt.Errorf("at least one record is required")
	}

	if s.Expect == nil && !s.Golden {
		return fmt.Errorf("one of expect, error or golden is required")
	}

	return nil
}
