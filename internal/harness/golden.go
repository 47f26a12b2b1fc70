package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// OutputSnapshot captures a scenario run for golden comparison.
type OutputSnapshot struct {
	Scenario string   `json:"scenario"`
	Kind     string   `json:"kind"`
	Expr     string   `json:"expr"`
	Output   []string `json:"output"`
}

// RunWithGolden executes a scenario and compares its output against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be executed. A mismatch fails
// the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden
// file without re-running it.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}

// Snapshot renders the golden file content for a scenario run: indented
// JSON without HTML escaping, so that format operators like <$> stay
// readable.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(OutputSnapshot{
		Scenario: scenario.Name,
		Kind:     scenario.Kind,
		Expr:     scenario.Expr,
		Output:   result.Output,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
