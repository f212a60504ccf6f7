package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/revelaction/depnorm/assemble"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if _, err := assemble.ConventionByName(c.Assemble.Convention); err != nil {
		return fmt.Errorf("assemble.convention: %w", err)
	}

	if c.Assemble.Workers < 1 {
		return fmt.Errorf("assemble.workers must be >= 1 (got %d)", c.Assemble.Workers)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}

	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	return nil
}
