package alarm

import (
	"github.com/oshokin/alarm-panel/internal/domain/event"
)

// ZoneCount is the number of zones tracked by the model.
const ZoneCount = event.MaxZone

type (
	// StateListener receives every arming state change with the mode recorded at that moment.
	StateListener func(state ArmingState, mode ArmingMode)
	// ZoneListener receives every zone change.
	ZoneListener func(zoneID int, triggered bool)
)

// Alarm is the in-memory representation of the panel the client is connected to.
type Alarm struct {
	// inferArmingState makes empty arming reports only resolve an UNKNOWN state.
	inferArmingState bool

	state ArmingState
	mode  ArmingMode
	zones [ZoneCount]Zone

	onStateChange StateListener
	onZoneChange  ZoneListener
}

// New creates an alarm in the UNKNOWN state with all zones unknown.
//
// With inferArmingState enabled an arming report without arming flags only moves
// an UNKNOWN panel to DISARMED, since some older panels report no flags while armed.
func New(inferArmingState bool) *Alarm {
	return &Alarm{
		inferArmingState: inferArmingState,
	}
}

// OnStateChange registers the state listener, replacing the previous one.
func (a *Alarm) OnStateChange(listener StateListener) {
	a.onStateChange = listener
}

// OnZoneChange registers the zone listener, replacing the previous one.
func (a *Alarm) OnZoneChange(listener ZoneListener) {
	a.onZoneChange = listener
}

// InferArmingState returns the configuration flag the alarm was built with.
func (a *Alarm) InferArmingState() bool {
	return a.inferArmingState
}

// ArmingState returns the current arming state.
func (a *Alarm) ArmingState() ArmingState {
	return a.state
}

// ArmingMode returns the mode of the current arming cycle, or ArmingModeNone.
func (a *Alarm) ArmingMode() ArmingMode {
	return a.mode
}

// Zone returns the state of zone id (1-based). ok is false for ids out of range.
func (a *Alarm) Zone(id int) (zone Zone, ok bool) {
	if id < 1 || id > ZoneCount {
		return Zone{}, false
	}

	return a.zones[id-1], true
}

// Zones returns a copy of all zone states, index 0 being zone 1.
func (a *Alarm) Zones() [ZoneCount]Zone {
	return a.zones
}

// HandleEvent applies a single event. Unsupported events are ignored.
func (a *Alarm) HandleEvent(ev event.Event) {
	if ev == nil {
		return
	}

	switch ev.Kind() {
	case event.KindArmingUpdate:
		if update, ok := ev.(*event.ArmingUpdate); ok && update != nil {
			a.handleArmingUpdate(update)
		}
	case event.KindZoneUpdate:
		update, ok := ev.(*event.ZoneUpdate)
		if ok && update != nil && update.RequestID == event.ZoneInputUnsealed {
			a.handleZoneInputUpdate(update)
		}
	case event.KindSystemStatus:
		if status, ok := ev.(*event.SystemStatusEvent); ok && status != nil {
			a.handleSystemStatusEvent(status)
		}
	case event.KindUnknown:
	}
}

// handleArmingUpdate applies an arming-status report. Rules are ordered, first match wins.
func (a *Alarm) handleArmingUpdate(update *event.ArmingUpdate) {
	status := update.Status

	switch {
	case status == event.AreaOneArmed:
		a.setArmingState(ExitDelay)
	case status.Has(event.MonitorArmed):
		a.setArmingState(ArmedMonitor)
	case a.state == Triggered:
		// The arming report cannot express an active alarm, so TRIGGERED stays
		// until ALARM_RESTORE or DISARMED arrives.
		a.setArmingState(Triggered)
	case status.Has(event.AreaOneArmed | event.AreaOneFullyArmed):
		a.setArmingState(Armed)
	case !a.inferArmingState:
		a.setArmingState(Disarmed)
	case a.state == Unknown:
		// Panels before v5.8 report no flags while armed, so only an UNKNOWN
		// state is resolved here. Otherwise a DISARMED event is required.
		a.setArmingState(Disarmed)
	}
}

// handleZoneInputUpdate reassesses every zone against the unsealed set.
func (a *Alarm) handleZoneInputUpdate(update *event.ZoneUpdate) {
	for id := 1; id <= ZoneCount; id++ {
		a.setZone(id, update.IncludedZones.Contains(id))
	}
}

// handleSystemStatusEvent applies a pushed system event.
//
// Typical flows:
//
//	DISARMED -> ARMED_AWAY -> EXIT_DELAY_START -> EXIT_DELAY_END
//	 (trip):   -> ALARM -> OUTPUT_ON -> ALARM_RESTORE
//	 (disarm): -> DISARMED -> OUTPUT_OFF
//	 (disarm before EXIT_DELAY_END): -> DISARMED -> EXIT_DELAY_END
func (a *Alarm) handleSystemStatusEvent(ev *event.SystemStatusEvent) {
	if mode, ok := armEventModes[ev.Type]; ok {
		a.mode = mode
		a.setArmingState(Arming)

		return
	}

	//nolint:exhaustive // Remaining event types do not affect the model.
	switch ev.Type {
	case event.Unsealed:
		a.setZone(ev.Zone, true)
	case event.Sealed:
		a.setZone(ev.Zone, false)
	case event.Alarm:
		a.setArmingState(Triggered)
	case event.AlarmRestore:
		// Restores to plain ARMED even when the panel was in another armed
		// state. The next arming report corrects it.
		if a.state != Disarmed {
			a.setArmingState(Armed)
		}
	case event.EntryDelayStart:
		a.setArmingState(EntryDelay)
	case event.ExitDelayStart:
		a.setArmingState(ExitDelay)
	case event.ExitDelayEnd:
		if a.state == ExitDelay {
			a.setArmingState(Armed)
		}
	case event.Disarmed:
		a.mode = ArmingModeNone
		a.setArmingState(Disarmed)
	case event.EntryDelayEnd, event.ArmingDelayed:
	}
}

// setArmingState stores the state and notifies the listener when it changed.
func (a *Alarm) setArmingState(state ArmingState) {
	if a.state == state {
		return
	}

	a.state = state

	if a.onStateChange != nil {
		a.onStateChange(state, a.mode)
	}
}

// setZone stores the zone flag and notifies the listener when it changed.
// Ids out of range are ignored.
func (a *Alarm) setZone(id int, triggered bool) {
	if id < 1 || id > ZoneCount {
		return
	}

	next := NewZone(triggered)
	if a.zones[id-1] == next {
		return
	}

	a.zones[id-1] = next

	if a.onZoneChange != nil {
		a.onZoneChange(id, triggered)
	}
}
