package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	crane "github.com/koscakluka/crane-core/core"
	"github.com/koscakluka/crane-core/core/sequencer"
	"github.com/urfave/cli"
)

func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("crane-demo", flag.ContinueOnError)
	for _, f := range runFlags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("expected flags to parse, got %v", err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestParseSchedule(t *testing.T) {
	schedule, err := parseSchedule(" 1.8, 3.8,,5.8 ")
	if err != nil {
		t.Fatalf("expected schedule to parse, got %v", err)
	}
	if !slices.Equal(schedule, []float64{1.8, 3.8, 5.8}) {
		t.Fatalf("expected [1.8 3.8 5.8], got %v", schedule)
	}

	if _, err := parseSchedule("1.8,soon"); err == nil {
		t.Fatalf("expected error for non-numeric offset")
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	config, err := resolveConfig(newTestContext(t))
	if err != nil {
		t.Fatalf("expected defaults to resolve, got %v", err)
	}

	expected := defaultConfig()
	if !slices.Equal(config.Schedule, expected.Schedule) || config.StartDelay != expected.StartDelay ||
		config.SettleDelay != expected.SettleDelay || config.CompletionPadding != expected.CompletionPadding ||
		!config.Loop || config.Cycles != 0 {
		t.Fatalf("expected default config, got %+v", config)
	}
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crane.json")
	file := `{"schedule": [1, 2], "start_delay": 0.5, "settle_delay": 0.1, "loop": true, "cycles": 3}`
	if err := os.WriteFile(path, []byte(file), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := resolveConfig(newTestContext(t, "--config", path, "--settle", "0.2", "--loop=false"))
	if err != nil {
		t.Fatalf("expected config to resolve, got %v", err)
	}

	if !slices.Equal(config.Schedule, []float64{1, 2}) {
		t.Fatalf("expected schedule from file, got %v", config.Schedule)
	}
	if config.StartDelay != 0.5 || config.Cycles != 3 {
		t.Fatalf("expected start delay and cycles from file, got %+v", config)
	}
	if config.SettleDelay != 0.2 {
		t.Fatalf("expected settle from flag, got %v", config.SettleDelay)
	}
	if config.Loop {
		t.Fatalf("expected loop disabled by flag")
	}
	if config.CompletionPadding != defaultPaddingSeconds {
		t.Fatalf("expected default padding, got %v", config.CompletionPadding)
	}
}

func TestResolveConfigRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crane.json")
	if err := os.WriteFile(path, []byte(`{"schedule": `), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := resolveConfig(newTestContext(t, "--config", path)); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
	if _, err := resolveConfig(newTestContext(t, "--config", path+".missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{
			name:     "empty schedule",
			mutate:   func(c *Config) { c.Schedule = nil },
			expected: sequencer.ErrEmptySchedule,
		},
		{
			name:     "negative offset",
			mutate:   func(c *Config) { c.Schedule = []float64{1, -1} },
			expected: sequencer.ErrNegativeOffset,
		},
		{
			name:     "negative start delay",
			mutate:   func(c *Config) { c.StartDelay = -0.1 },
			expected: ErrInvalidSeconds,
		},
		{
			name:     "negative padding",
			mutate:   func(c *Config) { c.CompletionPadding = -1 },
			expected: ErrInvalidSeconds,
		},
		{
			name:     "negative cycles",
			mutate:   func(c *Config) { c.Cycles = -1 },
			expected: ErrNegativeCycles,
		},
		{
			name:     "positions mismatch",
			mutate:   func(c *Config) { c.SlotPositions = []float64{0.5} },
			expected: crane.ErrSlotPositionsMismatch,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			config := defaultConfig()
			testCase.mutate(&config)
			if err := config.Validate(); !errors.Is(err, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, err)
			}
		})
	}
}

func TestConfigSchemaDescribesFields(t *testing.T) {
	schema, err := configSchema()
	if err != nil {
		t.Fatalf("expected schema, got %v", err)
	}

	for _, field := range []string{`"schedule"`, `"start_delay"`, `"settle_delay"`, `"completion_padding"`, `"slot_positions"`, `"cycles"`} {
		if !strings.Contains(string(schema), field) {
			t.Fatalf("expected schema to describe %s, got %s", field, schema)
		}
	}
	if strings.Contains(string(schema), `"$ref"`) {
		t.Fatalf("expected inlined schema without references")
	}
}
