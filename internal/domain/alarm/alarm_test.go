package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-panel/internal/domain/event"
)

// stateChange is one recorded state listener call.
type stateChange struct {
	state ArmingState
	mode  ArmingMode
}

// zoneChange is one recorded zone listener call.
type zoneChange struct {
	id        int
	triggered bool
}

// recorder collects listener calls of an Alarm.
type recorder struct {
	states []stateChange
	zones  []zoneChange
}

// newRecordedAlarm builds an alarm with both listeners attached to a recorder.
func newRecordedAlarm(inferArmingState bool) (*Alarm, *recorder) {
	var (
		a   = New(inferArmingState)
		rec = new(recorder)
	)

	a.OnStateChange(func(state ArmingState, mode ArmingMode) {
		rec.states = append(rec.states, stateChange{state: state, mode: mode})
	})
	a.OnZoneChange(func(id int, triggered bool) {
		rec.zones = append(rec.zones, zoneChange{id: id, triggered: triggered})
	})

	return a, rec
}

func system(eventType event.EventType) *event.SystemStatusEvent {
	return &event.SystemStatusEvent{Type: eventType}
}

func arming(status event.ArmingStatus) *event.ArmingUpdate {
	return &event.ArmingUpdate{Status: status}
}

// withState moves a fresh alarm into the given state without recording.
func withState(t *testing.T, inferArmingState bool, state ArmingState) (*Alarm, *recorder) {
	t.Helper()

	a, rec := newRecordedAlarm(inferArmingState)
	a.state = state
	rec.states = nil

	return a, rec
}

// TestNew_Defaults verifies a fresh alarm is UNKNOWN with every zone unknown.
func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a := New(false)

	require.Equal(t, Unknown, a.ArmingState())
	require.Equal(t, ArmingModeNone, a.ArmingMode())
	require.False(t, a.InferArmingState())
	require.Len(t, a.Zones(), 16)

	for id := 1; id <= ZoneCount; id++ {
		zone, ok := a.Zone(id)
		require.True(t, ok)

		_, known := zone.Triggered()
		require.False(t, known, "zone %d", id)
	}

	_, ok := a.Zone(0)
	require.False(t, ok)

	_, ok = a.Zone(17)
	require.False(t, ok)
}

// TestHandleEvent_IgnoresUnsupported verifies nil, unknown and non-input zone events are no-ops.
func TestHandleEvent_IgnoresUnsupported(t *testing.T) {
	t.Parallel()

	a, rec := newRecordedAlarm(false)

	a.HandleEvent(nil)
	a.HandleEvent(unknownEvent{})
	a.HandleEvent(&event.ZoneUpdate{RequestID: event.ZoneInAlarm, IncludedZones: event.ZonesOf(1, 2)})
	a.HandleEvent(system(event.TamperUnsealed))
	a.HandleEvent(system(event.OutputOn))

	require.Equal(t, Unknown, a.ArmingState())
	require.Empty(t, rec.states)
	require.Empty(t, rec.zones)
}

// unknownEvent is an event variant the alarm does not model.
type unknownEvent struct{}

func (unknownEvent) Kind() event.Kind { return event.KindUnknown }

// TestArmingUpdate_Rules checks the ordered arming-status rules from every relevant state.
func TestArmingUpdate_Rules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		infer  bool
		from   ArmingState
		status event.ArmingStatus
		want   ArmingState
	}{
		{"area armed only is exit delay", false, Disarmed, event.AreaOneArmed, ExitDelay},
		{"area armed only wins over triggered", false, Triggered, event.AreaOneArmed, ExitDelay},
		{"monitor armed", false, Disarmed, event.MonitorArmed, ArmedMonitor},
		{
			"monitor wins over fully armed", false, Disarmed,
			event.MonitorArmed | event.AreaOneArmed | event.AreaOneFullyArmed, ArmedMonitor,
		},
		{"triggered is kept", false, Triggered, event.AreaOneArmed | event.AreaOneFullyArmed, Triggered},
		{"triggered is kept on empty report", false, Triggered, 0, Triggered},
		{"fully armed", false, ExitDelay, event.AreaOneArmed | event.AreaOneFullyArmed, Armed},
		{
			"fully armed with extra flags", false, Unknown,
			event.AreaOneArmed | event.AreaOneFullyArmed | event.MemoryMode, Armed,
		},
		{"empty report disarms", false, Armed, 0, Disarmed},
		{"unrelated flags disarm", false, Armed, event.AreaTwoArmed, Disarmed},
		{"inferred empty report keeps armed", true, Armed, 0, Armed},
		{"inferred empty report resolves unknown", true, Unknown, 0, Disarmed},
		{"inferred empty report keeps arming", true, Arming, 0, Arming},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a, _ := withState(t, tc.infer, tc.from)
			a.HandleEvent(arming(tc.status))

			require.Equal(t, tc.want, a.ArmingState())
		})
	}
}

// TestArmingUpdate_Idempotent verifies repeating a report notifies only once.
func TestArmingUpdate_Idempotent(t *testing.T) {
	t.Parallel()

	a, rec := newRecordedAlarm(false)

	for i := 0; i < 3; i++ {
		a.HandleEvent(arming(event.AreaOneArmed | event.AreaOneFullyArmed))
	}

	require.Equal(t, []stateChange{{state: Armed}}, rec.states)
}

// TestZoneInputUpdate_ReassessesAllZones verifies the unsealed set overrides every prior value.
func TestZoneInputUpdate_ReassessesAllZones(t *testing.T) {
	t.Parallel()

	a, rec := newRecordedAlarm(false)

	// Prior values that must be overwritten.
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Unsealed, Zone: 1})
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Sealed, Zone: 3})

	rec.zones = nil

	a.HandleEvent(&event.ZoneUpdate{
		RequestID:     event.ZoneInputUnsealed,
		IncludedZones: event.ZonesOf(3, 7),
	})

	for id := 1; id <= ZoneCount; id++ {
		zone, _ := a.Zone(id)
		triggered, known := zone.Triggered()

		require.True(t, known, "zone %d", id)
		require.Equal(t, id == 3 || id == 7, triggered, "zone %d", id)
	}

	// Zone 1 flips, zone 3 flips, zone 7 goes unsealed, the 13 unknown ones become sealed.
	require.Len(t, rec.zones, 16)
	require.Contains(t, rec.zones, zoneChange{id: 1, triggered: false})
	require.Contains(t, rec.zones, zoneChange{id: 3, triggered: true})
	require.Contains(t, rec.zones, zoneChange{id: 7, triggered: true})

	rec.zones = nil

	a.HandleEvent(&event.ZoneUpdate{
		RequestID:     event.ZoneInputUnsealed,
		IncludedZones: event.ZonesOf(3, 7),
	})

	require.Empty(t, rec.zones)
	require.Equal(t, []int{3, 7}, a.Snapshot().Unsealed())
}

// TestSystemStatus_Zones verifies SEALED/UNSEALED events and out-of-range zones.
func TestSystemStatus_Zones(t *testing.T) {
	t.Parallel()

	a, rec := newRecordedAlarm(false)

	a.HandleEvent(&event.SystemStatusEvent{Type: event.Unsealed, Zone: 5})
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Unsealed, Zone: 5})
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Sealed, Zone: 5})
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Sealed, Zone: 0})
	a.HandleEvent(&event.SystemStatusEvent{Type: event.Unsealed, Zone: 17})

	require.Equal(t, []zoneChange{{id: 5, triggered: true}, {id: 5, triggered: false}}, rec.zones)

	zone, _ := a.Zone(5)
	require.Equal(t, "sealed", zone.String())
}

// TestSystemStatus_ArmAwayCycle walks DISARMED -> ARMING -> EXIT_DELAY -> ARMED.
func TestSystemStatus_ArmAwayCycle(t *testing.T) {
	t.Parallel()

	a, rec := withState(t, false, Disarmed)

	a.HandleEvent(system(event.ArmedAway))
	require.Equal(t, Arming, a.ArmingState())
	require.Equal(t, ArmedAway, a.ArmingMode())

	a.HandleEvent(system(event.ExitDelayStart))
	require.Equal(t, ExitDelay, a.ArmingState())

	a.HandleEvent(system(event.ExitDelayEnd))
	require.Equal(t, Armed, a.ArmingState())

	require.Equal(t, []stateChange{
		{state: Arming, mode: ArmedAway},
		{state: ExitDelay, mode: ArmedAway},
		{state: Armed, mode: ArmedAway},
	}, rec.states)
}

// TestSystemStatus_ArmModes verifies every arming event records its mode.
func TestSystemStatus_ArmModes(t *testing.T) {
	t.Parallel()

	cases := map[event.EventType]ArmingMode{
		event.ArmedAway:     ArmedAway,
		event.ArmedHome:     ArmedHome,
		event.ArmedDay:      ArmedDay,
		event.ArmedNight:    ArmedNight,
		event.ArmedVacation: ArmedVacation,
		event.ArmedHighest:  ArmedHighest,
	}

	for eventType, mode := range cases {
		a, rec := withState(t, false, Disarmed)
		a.HandleEvent(system(eventType))

		require.Equal(t, Arming, a.ArmingState())
		require.Equal(t, mode, a.ArmingMode())
		require.Equal(t, []stateChange{{state: Arming, mode: mode}}, rec.states)
		require.Equal(t, eventType.String(), mode.String())
	}
}

// TestSystemStatus_AlarmAndRestore verifies TRIGGERED survives arming reports and restores to ARMED.
func TestSystemStatus_AlarmAndRestore(t *testing.T) {
	t.Parallel()

	a, _ := withState(t, false, Armed)

	a.HandleEvent(system(event.Alarm))
	require.Equal(t, Triggered, a.ArmingState())

	a.HandleEvent(arming(event.AreaOneArmed | event.AreaOneFullyArmed))
	require.Equal(t, Triggered, a.ArmingState())

	a.HandleEvent(system(event.AlarmRestore))
	require.Equal(t, Armed, a.ArmingState())
}

// TestSystemStatus_AlarmRestoreLosesMode verifies restore lands on plain ARMED.
func TestSystemStatus_AlarmRestoreLosesMode(t *testing.T) {
	t.Parallel()

	a, _ := withState(t, false, ArmedMonitor)

	a.HandleEvent(system(event.Alarm))
	a.HandleEvent(system(event.AlarmRestore))

	require.Equal(t, Armed, a.ArmingState())

	// Restore while disarmed is a no-op.
	a, rec := withState(t, false, Disarmed)
	a.HandleEvent(system(event.AlarmRestore))

	require.Equal(t, Disarmed, a.ArmingState())
	require.Empty(t, rec.states)
}

// TestSystemStatus_DisarmDuringExitDelay verifies DISARMED clears the mode and EXIT_DELAY_END is ignored afterwards.
func TestSystemStatus_DisarmDuringExitDelay(t *testing.T) {
	t.Parallel()

	a, rec := withState(t, false, Disarmed)

	a.HandleEvent(system(event.ArmedNight))
	a.HandleEvent(system(event.ExitDelayStart))
	a.HandleEvent(system(event.Disarmed))

	require.Equal(t, Disarmed, a.ArmingState())
	require.Equal(t, ArmingModeNone, a.ArmingMode())

	rec.states = nil

	a.HandleEvent(system(event.ExitDelayEnd))

	require.Equal(t, Disarmed, a.ArmingState())
	require.Empty(t, rec.states)
}

// TestSystemStatus_EntryDelayAndNoops verifies entry delay handling and the no-op event types.
func TestSystemStatus_EntryDelayAndNoops(t *testing.T) {
	t.Parallel()

	a, rec := withState(t, false, Armed)

	a.HandleEvent(system(event.EntryDelayStart))
	require.Equal(t, EntryDelay, a.ArmingState())

	a.HandleEvent(system(event.EntryDelayEnd))
	a.HandleEvent(system(event.ArmingDelayed))
	a.HandleEvent(system(event.PowerFailure))

	require.Equal(t, EntryDelay, a.ArmingState())
	require.Equal(t, []stateChange{{state: EntryDelay}}, rec.states)
}

// TestListeners_Replace verifies registering a listener replaces the previous one.
func TestListeners_Replace(t *testing.T) {
	t.Parallel()

	var first, second int

	a := New(false)
	a.OnStateChange(func(ArmingState, ArmingMode) { first++ })
	a.OnStateChange(func(ArmingState, ArmingMode) { second++ })

	a.HandleEvent(system(event.Alarm))

	require.Zero(t, first)
	require.Equal(t, 1, second)

	// Without listeners the model still changes.
	b := New(false)
	b.HandleEvent(system(event.Alarm))
	b.HandleEvent(&event.SystemStatusEvent{Type: event.Unsealed, Zone: 2})

	require.Equal(t, Triggered, b.ArmingState())
}

// TestSnapshot_Copies verifies the snapshot is detached from the alarm.
func TestSnapshot_Copies(t *testing.T) {
	t.Parallel()

	a := New(true)
	a.HandleEvent(system(event.ArmedHome))

	snapshot := a.Snapshot()

	a.HandleEvent(&event.SystemStatusEvent{Type: event.Unsealed, Zone: 4})

	require.Equal(t, Arming, snapshot.State)
	require.Equal(t, ArmedHome, snapshot.Mode)
	require.True(t, snapshot.InferArmingState)
	require.Empty(t, snapshot.Unsealed())
	require.Equal(t, []int{4}, a.Snapshot().Unsealed())
}

// TestNames verifies state names round trip through ParseArmingState.
func TestNames(t *testing.T) {
	t.Parallel()

	for state := Unknown; state <= Triggered; state++ {
		parsed, ok := ParseArmingState(state.String())
		require.True(t, ok)
		require.Equal(t, state, parsed)
	}

	_, ok := ParseArmingState("PANIC")
	require.False(t, ok)
	for mode := ArmingModeNone; mode <= ArmedHighest; mode++ {
		parsed, ok := ParseArmingMode(mode.String())
		require.True(t, ok)
		require.Equal(t, mode, parsed)
	}

	for _, zone := range []Zone{{}, NewZone(false), NewZone(true)} {
		parsed, ok := ParseZone(zone.String())
		require.True(t, ok)
		require.Equal(t, zone, parsed)
	}

	_, ok = ParseZone("bypassed")
	require.False(t, ok)
	require.Empty(t, ArmingModeNone.String())
	require.Equal(t, "unknown", Zone{}.String())
	require.Equal(t, "unsealed", NewZone(true).String())
}
