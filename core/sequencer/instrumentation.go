package sequencer

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/koscakluka/crane-core/core/sequencer"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	slotsFired    = int64Counter("crane.sequencer.slots_fired", "Drop callbacks run")
	runsCompleted = int64Counter("crane.sequencer.runs_completed", "Runs that reached completion")
	runsCancelled = int64Counter("crane.sequencer.runs_cancelled", "Runs cancelled before completion")
)

func int64Counter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}
	return counter
}
