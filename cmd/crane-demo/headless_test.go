package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/koscakluka/crane-core/core/clock"
)

func fastConfig() Config {
	return Config{
		Schedule:          []float64{0.01, 0.02},
		SettleDelay:       0.005,
		CompletionPadding: 0.01,
	}
}

func runHeadlessWithTimeout(t *testing.T, config Config) string {
	t.Helper()

	var out bytes.Buffer
	result := make(chan error, 1)
	go func() {
		result <- playHeadless(context.Background(), config, clock.Real(), &out)
	}()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("expected headless run to succeed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for headless run")
	}
	return out.String()
}

func TestHeadlessSingleCycle(t *testing.T) {
	output := runHeadlessWithTimeout(t, fastConfig())

	if count := strings.Count(output, "slot.fired"); count != 2 {
		t.Fatalf("expected 2 drops, got %d in\n%s", count, output)
	}
	if count := strings.Count(output, "sequence.completed"); count != 1 {
		t.Fatalf("expected 1 completion, got %d in\n%s", count, output)
	}
	if strings.Index(output, "slot.activated") > strings.Index(output, "slot.fired") {
		t.Fatalf("expected activation before drop in\n%s", output)
	}
}

func TestHeadlessStopsAfterCycles(t *testing.T) {
	config := fastConfig()
	config.Loop = true
	config.Cycles = 2

	output := runHeadlessWithTimeout(t, config)

	if count := strings.Count(output, "sequence.completed"); count != 2 {
		t.Fatalf("expected 2 completed cycles, got %d in\n%s", count, output)
	}
	if count := strings.Count(output, "overlay.cycle_started"); count != 2 {
		t.Fatalf("expected no third cycle, got %d starts in\n%s", count, output)
	}
}

func TestHeadlessRejectsInvalidConfig(t *testing.T) {
	config := fastConfig()
	config.Schedule = nil

	var out bytes.Buffer
	if err := playHeadless(context.Background(), config, clock.Real(), &out); err == nil {
		t.Fatalf("expected invalid config error")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}
