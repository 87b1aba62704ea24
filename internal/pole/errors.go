package pole

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration indicates parameters or ant vectors that cannot
	// form a simulation.
	ErrInvalidConfiguration = errors.New("pole: invalid configuration")

	// ErrDoubleStart indicates a start request while a run is still active.
	ErrDoubleStart = errors.New("pole: run already active")
)

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
