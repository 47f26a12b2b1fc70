// Package config loads the pica configuration file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSrc string

// EnvVar names the environment variable holding the config file path.
const EnvVar = "PICA_CONFIG"

// Config is the decoded configuration file.
type Config struct {
	Global Global `yaml:"global" json:"global"`
	Select Select `yaml:"select" json:"select"`
	Format Format `yaml:"format" json:"format"`
	Lint   Lint   `yaml:"lint" json:"lint"`
}

// Global options apply to every command.
type Global struct {
	SkipInvalid     bool    `yaml:"skip_invalid" json:"skip_invalid"`
	CaseIgnore      bool    `yaml:"case_ignore" json:"case_ignore"`
	StrsimThreshold float64 `yaml:"strsim_threshold" json:"strsim_threshold"`
	Gzip            bool    `yaml:"gzip" json:"gzip"`
}

// Select options apply to queries.
type Select struct {
	Separator string `yaml:"separator" json:"separator"`
	Squash    bool   `yaml:"squash" json:"squash"`
	Merge     bool   `yaml:"merge" json:"merge"`
}

// Format options apply to format expressions.
type Format struct {
	StripOverreadChar bool `yaml:"strip_overread_char" json:"strip_overread_char"`
}

// Lint options select the report store.
type Lint struct {
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Global: Global{StrsimThreshold: 0.8},
		Select: Select{Separator: "|"},
		Format: Format{StripOverreadChar: true},
		Lint:   Lint{Driver: "sqlite"},
	}
}

// Error reports an unreadable or invalid configuration file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if err is (or wraps) a *config.Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Path resolves the config file location: the explicit path, then
// $PICA_CONFIG, then $XDG_CONFIG_HOME/pica/config.yaml (or the
// platform's user config directory). explicit reports whether the file
// was named by the caller and must therefore exist.
func Path(flag string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, true
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pica", "config.yaml"), false
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pica", "config.yaml"), false
	}
	return "", false
}

// Load reads the config file selected by Path(flag). A missing implicit
// file yields Default().
func Load(flag string) (*Config, error) {
	path, explicit := Path(flag)
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, &Error{Path: path, Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes YAML onto Default() and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
