package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
global:
  skip_invalid: true
  case_ignore: true
  strsim_threshold: 0.75
select:
  separator: "; "
  squash: true
lint:
  driver: sqlite3
  dsn: report.db
`))
	require.NoError(t, err)

	assert.True(t, cfg.Global.SkipInvalid)
	assert.True(t, cfg.Global.CaseIgnore)
	assert.Equal(t, 0.75, cfg.Global.StrsimThreshold)
	assert.Equal(t, "; ", cfg.Select.Separator)
	assert.True(t, cfg.Select.Squash)
	assert.False(t, cfg.Select.Merge)
	assert.True(t, cfg.Format.StripOverreadChar, "unset keys keep their defaults")
	assert.Equal(t, "sqlite3", cfg.Lint.Driver)
	assert.Equal(t, "report.db", cfg.Lint.DSN)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"threshold above one", "global:\n  strsim_threshold: 1.5\n"},
		{"negative threshold", "global:\n  strsim_threshold: -0.1\n"},
		{"empty separator", "select:\n  separator: \"\"\n"},
		{"unknown driver", "lint:\n  driver: mysql\n"},
		{"unknown key", "global:\n  colour: true\n"},
		{"wrong type", "global:\n  gzip: maybe\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	t.Run("missing implicit file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("xdg file", func(t *testing.T) {
		file := filepath.Join(dir, "pica", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, []byte("global:\n  gzip: true\n"), 0o644))
		t.Cleanup(func() { os.Remove(file) })

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Global.Gzip)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("env var", func(t *testing.T) {
		file := filepath.Join(dir, "env.yaml")
		require.NoError(t, os.WriteFile(file, []byte("select:\n  merge: true\n"), 0o644))
		t.Setenv(EnvVar, file)

		path, explicit := Path("")
		assert.Equal(t, file, path)
		assert.True(t, explicit)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Select.Merge)
	})

	t.Run("invalid file", func(t *testing.T) {
		file := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(file, []byte("global:\n  strsim_threshold: 2\n"), 0o644))

		_, err := Load(file)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "bad.yaml")
	})
}
