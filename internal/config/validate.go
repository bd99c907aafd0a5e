package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateDetailed performs the semantic checks struct tags cannot express
// and collects suggestions.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if c.RuntimeIdentifier != "" && !jsIdentifier.MatchString(c.RuntimeIdentifier) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("runtimeIdentifier: %q is not a valid JavaScript identifier", c.RuntimeIdentifier))
	}

	if c.Input != "" && c.OutDir != "" {
		if rel, err := filepath.Rel(c.OutDir, c.Input); err == nil && !strings.HasPrefix(rel, "..") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("input: %q lives inside outDir %q and may be overwritten or trigger rebuild loops in watch mode", c.Input, c.OutDir))
		}
	}

	if ext := filepath.Ext(c.Input); c.Input != "" && ext != ".json" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("input: extension %q is unusual, reflection documents are JSON", ext))
	}

	if c.Strict && c.Quiet {
		result.Warnings = append(result.Warnings,
			"strict and quiet are both set: quiet drops warnings before strict can turn them into errors")
	}

	if c.CacheSize == 0 {
		result.Warnings = append(result.Warnings,
			"cacheSize: 0 disables memoization, repeated sites are reflected again")
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
