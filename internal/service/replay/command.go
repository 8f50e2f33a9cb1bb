package replay

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/domain/event"
	"github.com/oshokin/alarm-panel/internal/feed"
	"github.com/oshokin/alarm-panel/internal/logger"
	"github.com/oshokin/alarm-panel/internal/repository/snapshot"
)

// Options controls a replay run.
type Options struct {
	// EventsFile is the YAML file of events to replay.
	EventsFile string
	// InferArmingState configures the model like the monitor option of the same name.
	InferArmingState bool
	// OutputFile is an optional path the final snapshot is written to.
	OutputFile string
	// TraceZones logs every zone change regardless of the global log level.
	TraceZones bool
}

// Result summarizes a replay.
type Result struct {
	// Events is the number of events processed.
	Events int
	// StateChanges is the number of arming state notifications.
	StateChanges int
	// ZoneChanges is the number of zone notifications.
	ZoneChanges int
	// Final is the model after the last event.
	Final alarm.Snapshot
}

// errEventsFileRequired is returned when no events file is given.
var errEventsFileRequired = errors.New("events file must be provided")

// Run replays the events file and logs the outcome.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "alarm-replay")

	if opts.EventsFile == "" {
		return nil, errEventsFileRequired
	}

	events, err := feed.ReadFile(opts.EventsFile)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	replayCtx := ctx
	if opts.TraceZones {
		replayCtx = logger.WithLevel(ctx, zapcore.DebugLevel)
	}

	result := Replay(replayCtx, events, opts.InferArmingState)

	logger.InfoKV(ctx, "Replay finished",
		"events", result.Events,
		"state_changes", result.StateChanges,
		"zone_changes", result.ZoneChanges,
		"state", result.Final.State.String(),
		"mode", result.Final.Mode.String(),
		"unsealed", result.Final.Unsealed(),
	)

	if opts.OutputFile != "" {
		repo := snapshot.NewFileRepository(opts.OutputFile)
		if err = repo.Save(ctx, result.Final); err != nil {
			return nil, fmt.Errorf("export snapshot: %w", err)
		}

		logger.InfoKV(ctx, "Snapshot exported", "file", repo.Path())
	}

	return result, nil
}

// Replay feeds events through a fresh model and logs each change with the
// position of the event that caused it.
func Replay(ctx context.Context, events []event.Event, inferArmingState bool) *Result {
	var (
		model    = alarm.New(inferArmingState)
		result   = new(Result)
		position int
	)

	model.OnStateChange(func(state alarm.ArmingState, mode alarm.ArmingMode) {
		result.StateChanges++

		logger.InfoKV(ctx, "Arming state changed", "event", position, "state", state.String(), "mode", mode.String())
	})

	model.OnZoneChange(func(zoneID int, triggered bool) {
		result.ZoneChanges++

		logger.DebugKV(ctx, "Zone changed", "event", position, "zone", zoneID, "triggered", triggered)
	})

	for index, ev := range events {
		position = index + 1

		model.HandleEvent(ev)
	}

	result.Events = len(events)
	result.Final = model.Snapshot()

	return result
}
