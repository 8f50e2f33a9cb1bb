package monitor

import (
	"context"
	"sync"

	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/domain/event"
	"github.com/oshokin/alarm-panel/internal/logger"
)

// Publisher forwards model changes to the outside world.
type Publisher interface {
	PublishState(ctx context.Context, state alarm.ArmingState, mode alarm.ArmingMode) error
	PublishZone(ctx context.Context, zoneID int, triggered bool) error
}

// change is a listener notification waiting to be logged and published.
type change struct {
	// zoneID is set for zone changes and zero for state changes.
	zoneID    int
	triggered bool
	state     alarm.ArmingState
	mode      alarm.ArmingMode
}

// service serializes access to the alarm model.
// Transport goroutines call Handle and Snapshot concurrently; the model itself
// is only ever touched under mu.
type service struct {
	// model is the alarm state machine.
	model *alarm.Alarm
	// pending collects listener notifications during a single HandleEvent call.
	pending []change
	// publisher receives changes after the model lock is released. May be nil.
	publisher Publisher

	// handleMu orders whole Handle calls so changes are published in order.
	handleMu sync.Mutex
	// mu protects model and pending.
	mu sync.RWMutex
}

// newService wraps the model and attaches the change listeners.
func newService(model *alarm.Alarm) *service {
	s := &service{
		model: model,
	}

	model.OnStateChange(func(state alarm.ArmingState, mode alarm.ArmingMode) {
		s.pending = append(s.pending, change{state: state, mode: mode})
	})

	model.OnZoneChange(func(zoneID int, triggered bool) {
		s.pending = append(s.pending, change{zoneID: zoneID, triggered: triggered})
	})

	return s
}

// setPublisher replaces the publisher used for subsequent changes.
func (s *service) setPublisher(publisher Publisher) {
	s.handleMu.Lock()
	defer s.handleMu.Unlock()

	s.publisher = publisher
}

// Handle applies one event, then logs and publishes the resulting changes.
func (s *service) Handle(ctx context.Context, ev event.Event) {
	s.handleMu.Lock()
	defer s.handleMu.Unlock()

	s.mu.Lock()
	s.model.HandleEvent(ev)
	changes := s.pending
	s.pending = nil
	s.mu.Unlock()

	if ev == nil {
		logger.Debug(ctx, "Nil event ignored")
	} else {
		logger.DebugKV(ctx, "Event handled", "kind", ev.Kind().String(), "changes", len(changes))
	}

	for _, c := range changes {
		s.emit(ctx, c)
	}
}

// PublishSnapshot publishes the whole current model, e.g. after (re)connecting.
// Unknown zones are skipped.
func (s *service) PublishSnapshot(ctx context.Context) {
	s.handleMu.Lock()
	defer s.handleMu.Unlock()

	if s.publisher == nil {
		return
	}

	snapshot := s.Snapshot(ctx)

	if err := s.publisher.PublishState(ctx, snapshot.State, snapshot.Mode); err != nil {
		logger.ErrorKV(ctx, "Failed to publish arming state", "error", err)
	}

	for i, zone := range snapshot.Zones {
		triggered, known := zone.Triggered()
		if !known {
			continue
		}

		if err := s.publisher.PublishZone(ctx, i+1, triggered); err != nil {
			logger.ErrorKV(ctx, "Failed to publish zone", "zone", i+1, "error", err)
		}
	}
}

// Snapshot returns a copy of the current model.
func (s *service) Snapshot(_ context.Context) alarm.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.model.Snapshot()
}

// emit logs a change and hands it to the publisher.
func (s *service) emit(ctx context.Context, c change) {
	if c.zoneID != 0 {
		logger.InfoKV(ctx, "Zone changed", "zone", c.zoneID, "triggered", c.triggered)

		if s.publisher == nil {
			return
		}

		if err := s.publisher.PublishZone(ctx, c.zoneID, c.triggered); err != nil {
			logger.ErrorKV(ctx, "Failed to publish zone", "zone", c.zoneID, "error", err)
		}

		return
	}

	logger.InfoKV(ctx, "Arming state changed", "state", c.state.String(), "mode", c.mode.String())

	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishState(ctx, c.state, c.mode); err != nil {
		logger.ErrorKV(ctx, "Failed to publish arming state", "error", err)
	}
}
