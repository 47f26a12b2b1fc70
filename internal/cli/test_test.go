package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, err := execute(t, NewTestCommand(textOpts()), harnessScenarios)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ query_cross_product")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	out, err := execute(t, NewTestCommand(jsonOpts()), "--filter", "format_*", harnessScenarios)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, resp.Data.Total, resp.Data.Passed)
	for _, s := range resp.Data.Scenarios {
		assert.Contains(t, s.Name, "format_")
	}
}

func TestTestCommand_FailureAndUpdate(t *testing.T) {
	dir := t.TempDir()
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "wrong.yaml"), []byte(`
name: wrong
description: "expects the wrong value"
kind: query
expr: "003@.0"
records: ["003@ $0123"]
expect: ["124"]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "snap.yaml"), []byte(`
name: snap
description: "golden only"
kind: query
expr: "003@.0"
records: ["003@ $0123"]
golden: true
`), 0o644))

	out, err := execute(t, NewTestCommand(textOpts()), scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "✗ snap")
	assert.Contains(t, out, "failed to read golden file")

	out, err = execute(t, NewTestCommand(textOpts()), "--update", "--filter", "snap", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ snap (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "snap.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"123"`)

	out, err = execute(t, NewTestCommand(textOpts()), "--filter", "snap", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ snap")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(textOpts()), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
