package model

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these; the typed errors below unwrap to them.
var (
	// ErrConfig marks malformed or missing input configuration.
	ErrConfig = errors.New("configuration error")
	// ErrValidation marks site/task data that violates an invariant.
	ErrValidation = errors.New("validation error")
	// ErrInvalidState marks a call made while the simulator is not in a state to serve it.
	ErrInvalidState = errors.New("invalid simulation state")
)

// ValidationError describes a single failed invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RangeError is returned when an index field points outside the collection it refers to.
type RangeError struct {
	Field string
	Index int
	Len   int // valid range is [Min, Len)
	Min   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [%d, %d)", e.Field, e.Index, e.Min, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrValidation }

// ConfigError wraps a decoding/loading failure with the source it came from.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() []error { return []error{ErrConfig, e.Err} }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
