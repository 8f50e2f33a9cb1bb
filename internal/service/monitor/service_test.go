package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-panel/internal/domain/alarm"
	"github.com/oshokin/alarm-panel/internal/domain/event"
)

var errTestPublish = errors.New("test publish error")

// published is one call recorded by memoryPublisher.
type published struct {
	zoneID    int
	triggered bool
	state     alarm.ArmingState
	mode      alarm.ArmingMode
}

// memoryPublisher is a minimal in-memory Publisher implementation for tests.
type memoryPublisher struct {
	// calls stores every publication in order.
	calls []published
	// err is returned from every publication when set.
	err error
}

// PublishState records a state publication.
func (m *memoryPublisher) PublishState(_ context.Context, state alarm.ArmingState, mode alarm.ArmingMode) error {
	m.calls = append(m.calls, published{state: state, mode: mode})

	return m.err
}

// PublishZone records a zone publication.
func (m *memoryPublisher) PublishZone(_ context.Context, zoneID int, triggered bool) error {
	m.calls = append(m.calls, published{zoneID: zoneID, triggered: triggered})

	return m.err
}

// TestService_HandlePublishesChanges verifies every change reaches the publisher in order.
func TestService_HandlePublishesChanges(t *testing.T) {
	t.Parallel()

	var (
		ctx       = context.Background()
		publisher = new(memoryPublisher)
		svc       = newService(alarm.New(false))
	)

	svc.setPublisher(publisher)

	svc.Handle(ctx, &event.SystemStatusEvent{Type: event.ArmedAway})
	svc.Handle(ctx, &event.SystemStatusEvent{Type: event.ArmedAway})
	svc.Handle(ctx, &event.SystemStatusEvent{Type: event.Unsealed, Zone: 2})
	svc.Handle(ctx, &event.SystemStatusEvent{Type: event.OutputOn})
	svc.Handle(ctx, nil)

	require.Equal(t, []published{
		{state: alarm.Arming, mode: alarm.ArmedAway},
		{zoneID: 2, triggered: true},
	}, publisher.calls)

	snapshot := svc.Snapshot(ctx)
	require.Equal(t, alarm.Arming, snapshot.State)
	require.Equal(t, []int{2}, snapshot.Unsealed())
}

// TestService_PublishErrorsDoNotStopModel verifies failing publications only get logged.
func TestService_PublishErrorsDoNotStopModel(t *testing.T) {
	t.Parallel()

	var (
		ctx       = context.Background()
		publisher = &memoryPublisher{err: errTestPublish}
		svc       = newService(alarm.New(false))
	)

	svc.setPublisher(publisher)
	svc.Handle(ctx, &event.SystemStatusEvent{Type: event.Alarm})
	svc.Handle(ctx, &event.ZoneUpdate{RequestID: event.ZoneInputUnsealed, IncludedZones: event.ZonesOf(1)})

	require.Equal(t, alarm.Triggered, svc.Snapshot(ctx).State)
	require.Len(t, publisher.calls, 1+alarm.ZoneCount)
}

// TestService_PublishSnapshot verifies the full model is published, skipping unknown zones.
func TestService_PublishSnapshot(t *testing.T) {
	t.Parallel()

	var (
		ctx = context.Background()
		svc = newService(alarm.New(false))
	)

	// Without a publisher nothing happens.
	svc.PublishSnapshot(ctx)

	svc.Handle(ctx, &event.SystemStatusEvent{Type: event.Sealed, Zone: 9})

	publisher := new(memoryPublisher)
	svc.setPublisher(publisher)
	svc.PublishSnapshot(ctx)

	require.Equal(t, []published{
		{state: alarm.Unknown},
		{zoneID: 9, triggered: false},
	}, publisher.calls)
}

// TestService_ConcurrentAccess verifies concurrent handlers and readers are serialized.
func TestService_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	var (
		ctx = context.Background()
		svc = newService(alarm.New(false))
		wg  sync.WaitGroup
	)

	for zone := 1; zone <= alarm.ZoneCount; zone++ {
		zone := zone

		wg.Add(2)

		go func() {
			defer wg.Done()

			svc.Handle(ctx, &event.SystemStatusEvent{Type: event.Unsealed, Zone: zone})
		}()

		go func() {
			defer wg.Done()

			_ = svc.Snapshot(ctx)
		}()
	}

	wg.Wait()

	require.Len(t, svc.Snapshot(ctx).Unsealed(), alarm.ZoneCount)
}
