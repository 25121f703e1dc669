package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// recognizedParsers is the set of valid parser names.
var recognizedParsers = map[string]bool{
	"marker":  true,
	"generic": true,
}

// Validate checks a Config for errors. It returns all problems found
// (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(cfg.Tool) == "" {
		errs = append(errs, ValidationError{Field: "tool", Message: "is required"})
	}
	if strings.TrimSpace(cfg.Check) == "" {
		errs = append(errs, ValidationError{Field: "check", Message: "is required"})
	}
	if cfg.Marker == "" {
		errs = append(errs, ValidationError{Field: "marker", Message: "is required"})
	}
	if cfg.Parser != "" && !recognizedParsers[cfg.Parser] {
		errs = append(errs, ValidationError{
			Field:   "parser",
			Message: fmt.Sprintf("unrecognized parser %q", cfg.Parser),
		})
	}

	d, err := cfg.TimeoutDuration()
	switch {
	case err != nil:
		errs = append(errs, ValidationError{Field: "timeout", Message: fmt.Sprintf("invalid duration %q", cfg.Timeout)})
	case d < 0:
		errs = append(errs, ValidationError{Field: "timeout", Message: "must not be negative"})
	}

	return errs
}
