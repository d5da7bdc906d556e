package sequencer

import "time"

const (
	DefaultSettleDelay       = 50 * time.Millisecond
	DefaultCompletionPadding = time.Second
)

// Config holds the presentation tuning values of a run.
type Config struct {
	// SettleDelay is the gap between a slot becoming active and its drop
	// callback.
	SettleDelay time.Duration
	// CompletionPadding is added to the largest schedule offset to get the
	// completion time.
	CompletionPadding time.Duration
}

func DefaultConfig() Config {
	return Config{
		SettleDelay:       DefaultSettleDelay,
		CompletionPadding: DefaultCompletionPadding,
	}
}

func (c Config) Validate() error {
	if c.SettleDelay < 0 {
		return newConfigError("settle delay", ErrNegativeDuration)
	}
	if c.CompletionPadding < 0 {
		return newConfigError("completion padding", ErrNegativeDuration)
	}
	return nil
}
