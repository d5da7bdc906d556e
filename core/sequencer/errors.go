package sequencer

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySchedule      = errors.New("schedule has no offsets")
	ErrNegativeOffset     = errors.New("offset is negative")
	ErrInvalidOffset      = errors.New("offset is not a finite number")
	ErrNegativeStartDelay = errors.New("start delay is negative")
	ErrNegativeDuration   = errors.New("duration is negative")
)

// ConfigError reports a schedule, start delay or tuning value that was
// rejected before any timer was armed.
type ConfigError struct {
	Field string
	// Index is the schedule position for per-offset problems, -1 otherwise.
	Index int
	Err   error
}

func newConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Index: -1, Err: err}
}

func newOffsetError(index int, err error) *ConfigError {
	return &ConfigError{Field: "schedule", Index: index, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s[%d]: %v", e.Field, e.Index, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var _ error = (*ConfigError)(nil)
