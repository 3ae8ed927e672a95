package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// pythonVersionPattern accepts CPython 3.x series versions, the only
// line the generated CI workflows and pyproject.toml understand.
var pythonVersionPattern = regexp.MustCompile(`^3\.\d+$`)

// Validate checks the configuration for correctness. knownProviders is
// the set of registered provider names; an empty slice skips the
// provider check so that Validate stays usable in isolation.
func Validate(cfg *Config, knownProviders []string) error {
	var errs []ValidationError

	if cfg.DefaultTier != "" && !cfg.DefaultTier.Valid() {
		errs = append(errs, ValidationError{
			Field:   "default_tier",
			Message: `must be "1" (Lite), "2" (Standard), or "3" (Enterprise)`,
			Value:   string(cfg.DefaultTier),
			Wrapped: ErrInvalidConfig,
		})
	}

	if cfg.PythonVersion != "" && !pythonVersionPattern.MatchString(cfg.PythonVersion) {
		errs = append(errs, ValidationError{
			Field:   "python_version",
			Message: `must match 3.N (example: "3.12")`,
			Value:   cfg.PythonVersion,
			Wrapped: ErrInvalidConfig,
		})
	}

	if cfg.DefaultProvider != "" && len(knownProviders) > 0 && !slices.Contains(knownProviders, cfg.DefaultProvider) {
		errs = append(errs, ValidationError{
			Field:   "default_provider",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(knownProviders, ", ")),
			Value:   cfg.DefaultProvider,
			Wrapped: ErrInvalidConfig,
		})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
