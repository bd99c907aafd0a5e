// Package config loads and validates tsreflect configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/go-json-experiment/json"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileNames lists the config file names Discover looks for, in order.
var FileNames = []string{"tsreflect.config.json", "tsreflect.config.yaml", "tsreflect.config.yml"}

// Config represents the tsreflect configuration.
type Config struct {
	// Input is the reflection document produced by the type-resolution step.
	Input string `json:"input" yaml:"input" validate:"required"`
	// OutDir receives reflection.js, reflection.json and the build cache.
	OutDir string `json:"outDir" yaml:"outDir" validate:"required"`

	// RuntimeModule is the module generated code requires the filter
	// factory from (default: "tsreflect/runtime").
	RuntimeModule string `json:"runtimeModule,omitempty" yaml:"runtimeModule,omitempty" validate:"required"`
	// RuntimeIdentifier is the local binding of the filter factory.
	RuntimeIdentifier string `json:"runtimeIdentifier,omitempty" yaml:"runtimeIdentifier,omitempty" validate:"required"`

	// Dominance drops literals swallowed by a keyword of the same domain
	// in a union. Unset means enabled.
	Dominance *bool `json:"dominance,omitempty" yaml:"dominance,omitempty"`
	// MaxDepth bounds type walks (default 64).
	MaxDepth int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty" validate:"gte=1,lte=4096"`
	// Concurrency is the number of sites reflected in parallel. Zero
	// means GOMAXPROCS.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"gte=0"`
	// CacheSize is the number of memoized reflection results. Zero
	// disables memoization.
	CacheSize int `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty" validate:"gte=0"`

	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"` // warnings become errors
	Quiet  bool `json:"quiet,omitempty" yaml:"quiet,omitempty"`   // suppress warnings and info

	Log LogConfig `json:"log" yaml:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty" validate:"oneof=debug info warn error"`
	JSON  bool   `json:"json,omitempty" yaml:"json,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Input:             "reflection.input.json",
		OutDir:            "dist",
		RuntimeModule:     "tsreflect/runtime",
		RuntimeIdentifier: "__tsreflectPropertiesOf",
		MaxDepth:          64,
		CacheSize:         1024,
		Log:               LogConfig{Level: "info"},
	}
}

// DominanceEnabled reports whether the dominance rule applies.
func (c *Config) DominanceEnabled() bool {
	return c.Dominance == nil || *c.Dominance
}

// Discover returns the first config file found in dir, or "" if none.
func Discover(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses a tsreflect config file. JSON and YAML are
// supported, chosen by extension. Relative input and outDir paths are
// resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := decode(path, data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	config.resolvePaths(filepath.Dir(path))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

func decode(path string, data []byte, into *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(into); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return json.Unmarshal(data, into, json.RejectUnknownMembers(true))
	}
}

func (c *Config) resolvePaths(base string) {
	if c.Input != "" && !filepath.IsAbs(c.Input) {
		c.Input = filepath.Join(base, c.Input)
	}
	if c.OutDir != "" && !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(base, c.OutDir)
	}
}

// Merge applies the non-zero fields of overrides on top of c. Command-line
// flags reach the config this way.
func (c *Config) Merge(overrides Config) error {
	if err := mergo.Merge(c, overrides, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging config overrides: %w", err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q constraint (value %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}
	if r := c.ValidateDetailed(); !r.IsValid() {
		return errors.New(r.Errors[0])
	}
	return nil
}

// fieldPath turns a validator namespace ("Config.Log.Level") into the
// config key path ("log.level").
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}
