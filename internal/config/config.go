// Package config loads the optional .stackgen.yaml file that sets project
// defaults for the stackgen command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/xgx-io/stackerr/internal/schema"
)

// FileName is the config file looked up in the working directory.
const FileName = ".stackgen.yaml"

// DefaultSuffix replaces ".stackerr.yaml" in generated file names.
const DefaultSuffix = "_stackerr.go"

// Config holds project-wide generator settings.
type Config struct {
	Tier        string   `yaml:"tier"`
	Suffix      string   `yaml:"suffix"`
	StackTypes  []string `yaml:"stack_types"`
	Concurrency int      `yaml:"concurrency"`
	LogLevel    string   `yaml:"log_level"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Tier:        schema.TierFull,
		Suffix:      DefaultSuffix,
		Concurrency: runtime.GOMAXPROCS(0),
		LogLevel:    "warn",
	}
}

// Load reads the config at path. An empty path looks for FileName in the
// working directory and falls back to Default when there is none; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Clean(path), err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes config data over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs error
	switch c.Tier {
	case schema.TierMinimal, schema.TierAlloc, schema.TierFull:
	default:
		errs = multierr.Append(errs, fmt.Errorf("invalid tier %q: expected minimal, alloc or full", c.Tier))
	}
	if !strings.HasSuffix(c.Suffix, ".go") || strings.ContainsRune(c.Suffix, filepath.Separator) {
		errs = multierr.Append(errs, fmt.Errorf("invalid suffix %q: must be a file name ending in .go", c.Suffix))
	}
	if c.Concurrency < 1 {
		errs = multierr.Append(errs, fmt.Errorf("invalid concurrency %d: must be at least 1", c.Concurrency))
	}
	for _, t := range c.StackTypes {
		if strings.TrimSpace(t) == "" {
			errs = multierr.Append(errs, errors.New("stack_types contains an empty entry"))
			break
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid log_level: %w", err))
	}
	return errs
}
