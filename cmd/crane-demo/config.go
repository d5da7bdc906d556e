package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	crane "github.com/koscakluka/crane-core/core"
	"github.com/koscakluka/crane-core/core/sequencer"
	"github.com/urfave/cli"
)

const (
	defaultStartDelaySeconds = 0.18
	defaultSettleSeconds     = 0.05
	defaultPaddingSeconds    = 1.0
)

var (
	ErrNegativeCycles = errors.New("cycles must not be negative")
	ErrInvalidSeconds = errors.New("seconds must be a finite, non-negative number")
)

// Config is the demo configuration, read from a JSON file and overridden by
// flags. Times are in seconds.
type Config struct {
	Schedule          []float64 `json:"schedule" jsonschema:"minItems=1,description=Drop offsets in seconds from arming"`
	StartDelay        float64   `json:"start_delay" jsonschema:"minimum=0,description=Seconds before the schedule is armed"`
	SettleDelay       float64   `json:"settle_delay" jsonschema:"minimum=0,description=Seconds between activation and drop"`
	CompletionPadding float64   `json:"completion_padding" jsonschema:"minimum=0,description=Seconds after the last offset until completion"`
	SlotPositions     []float64 `json:"slot_positions,omitempty" jsonschema:"description=Horizontal slot positions in [0 1] one per offset"`
	Loop              bool      `json:"loop" jsonschema:"description=Start a new cycle when one completes"`
	Cycles            int       `json:"cycles,omitempty" jsonschema:"minimum=0,description=Completed cycles before exiting (0 runs forever)"`
}

func defaultConfig() Config {
	return Config{
		Schedule:          []float64{1.8, 3.8, 5.8, 7.8},
		StartDelay:        defaultStartDelaySeconds,
		SettleDelay:       defaultSettleSeconds,
		CompletionPadding: defaultPaddingSeconds,
		Loop:              true,
	}
}

// resolveConfig layers the config file (if any) and explicitly set flags
// over the defaults.
func resolveConfig(ctx *cli.Context) (Config, error) {
	config := defaultConfig()

	if path := ctx.String("config"); path != "" {
		if err := loadConfigFile(path, &config); err != nil {
			return Config{}, err
		}
	}

	if ctx.IsSet("schedule") {
		schedule, err := parseSchedule(ctx.String("schedule"))
		if err != nil {
			return Config{}, err
		}
		config.Schedule = schedule
	}
	if ctx.IsSet("start-delay") {
		config.StartDelay = ctx.Float64("start-delay")
	}
	if ctx.IsSet("settle") {
		config.SettleDelay = ctx.Float64("settle")
	}
	if ctx.IsSet("padding") {
		config.CompletionPadding = ctx.Float64("padding")
	}
	if ctx.IsSet("loop") {
		config.Loop = ctx.BoolT("loop")
	}
	if ctx.IsSet("cycles") {
		config.Cycles = ctx.Int("cycles")
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// parseSchedule reads offsets such as "1.8, 3.8,5.8".
func parseSchedule(value string) ([]float64, error) {
	var schedule []float64
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		seconds, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schedule offset %q: %w", field, err)
		}
		schedule = append(schedule, seconds)
	}
	return schedule, nil
}

func (c Config) Validate() error {
	_, err := c.OverlayOptions()
	return err
}

// OverlayOptions converts the configuration into overlay options, checking
// every value on the way.
func (c Config) OverlayOptions() ([]crane.OverlayOption, error) {
	schedule, err := sequencer.ScheduleFromSeconds(c.Schedule...)
	if err != nil {
		return nil, err
	}
	startDelay, err := durationFromSeconds("start_delay", c.StartDelay)
	if err != nil {
		return nil, err
	}
	settle, err := durationFromSeconds("settle_delay", c.SettleDelay)
	if err != nil {
		return nil, err
	}
	padding, err := durationFromSeconds("completion_padding", c.CompletionPadding)
	if err != nil {
		return nil, err
	}
	if c.Cycles < 0 {
		return nil, ErrNegativeCycles
	}
	if len(c.SlotPositions) > 0 && len(c.SlotPositions) != len(schedule) {
		return nil, fmt.Errorf("%w: %d positions for %d slots",
			crane.ErrSlotPositionsMismatch, len(c.SlotPositions), len(schedule))
	}

	opts := []crane.OverlayOption{
		crane.WithSchedule(schedule),
		crane.WithStartDelay(startDelay),
		crane.WithLooping(c.Loop),
		crane.WithSequencerConfig(sequencer.Config{
			SettleDelay:       settle,
			CompletionPadding: padding,
		}),
	}
	if len(c.SlotPositions) > 0 {
		opts = append(opts, crane.WithSlotPositions(c.SlotPositions))
	}
	return opts, nil
}

func durationFromSeconds(field string, seconds float64) (time.Duration, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid %s: %w", field, ErrInvalidSeconds)
	}
	return time.Duration(math.Round(seconds * float64(time.Second))), nil
}

func configSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&Config{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config schema: %w", err)
	}
	return data, nil
}
