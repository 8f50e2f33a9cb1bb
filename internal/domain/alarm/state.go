package alarm

import (
	"strings"

	"github.com/oshokin/alarm-panel/internal/domain/event"
)

// ArmingState is the high-level security posture of the panel.
type ArmingState uint8

const (
	// Unknown is the state before the panel reported anything useful.
	Unknown ArmingState = iota
	Disarmed
	Arming
	ExitDelay
	Armed
	ArmedMonitor
	EntryDelay
	Triggered
)

//nolint:gochecknoglobals // Read-only lookup table.
var armingStateNames = [...]string{
	Unknown:      "UNKNOWN",
	Disarmed:     "DISARMED",
	Arming:       "ARMING",
	ExitDelay:    "EXIT_DELAY",
	Armed:        "ARMED",
	ArmedMonitor: "ARMED_MONITOR",
	EntryDelay:   "ENTRY_DELAY",
	Triggered:    "TRIGGERED",
}

// String returns the state name.
func (s ArmingState) String() string {
	if int(s) < len(armingStateNames) {
		return armingStateNames[s]
	}

	return armingStateNames[Unknown]
}

// ParseArmingState resolves a state by its name.
func ParseArmingState(name string) (ArmingState, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for state, candidate := range armingStateNames {
		if candidate == name {
			return ArmingState(state), true
		}
	}

	return Unknown, false
}

// ArmingMode is the profile that started the current arming cycle.
// The zero value means no mode is recorded.
type ArmingMode uint8

const (
	// ArmingModeNone means no arming cycle is in progress.
	ArmingModeNone ArmingMode = iota
	ArmedAway
	ArmedHome
	ArmedDay
	ArmedNight
	ArmedVacation
	ArmedHighest
)

//nolint:gochecknoglobals // Read-only lookup table.
var armingModeNames = [...]string{
	ArmingModeNone: "",
	ArmedAway:      "ARMED_AWAY",
	ArmedHome:      "ARMED_HOME",
	ArmedDay:       "ARMED_DAY",
	ArmedNight:     "ARMED_NIGHT",
	ArmedVacation:  "ARMED_VACATION",
	ArmedHighest:   "ARMED_HIGHEST",
}

// String returns the mode name, or an empty string when no mode is recorded.
func (m ArmingMode) String() string {
	if int(m) < len(armingModeNames) {
		return armingModeNames[m]
	}

	return ""
}

// ParseArmingMode resolves a mode by its name. An empty name is ArmingModeNone.
func ParseArmingMode(name string) (ArmingMode, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for mode, candidate := range armingModeNames {
		if candidate == name {
			return ArmingMode(mode), true
		}
	}

	return ArmingModeNone, false
}

// armEventModes maps the arming system events to the mode they start.
//
//nolint:gochecknoglobals // Read-only lookup table.
var armEventModes = map[event.EventType]ArmingMode{
	event.ArmedAway:     ArmedAway,
	event.ArmedHome:     ArmedHome,
	event.ArmedDay:      ArmedDay,
	event.ArmedNight:    ArmedNight,
	event.ArmedVacation: ArmedVacation,
	event.ArmedHighest:  ArmedHighest,
}

// Zone is the tri-state triggered flag of a single sensor input.
// The zero value is a zone whose state has not been reported yet.
type Zone struct {
	triggered bool
	known     bool
}

// NewZone returns a zone with a known triggered flag.
func NewZone(triggered bool) Zone {
	return Zone{triggered: triggered, known: true}
}

// Triggered returns the flag and whether it has been reported at all.
func (z Zone) Triggered() (triggered, known bool) {
	return z.triggered, z.known
}

// String returns "unknown", "sealed" or "unsealed".
func (z Zone) String() string {
	switch {
	case !z.known:
		return "unknown"
	case z.triggered:
		return "unsealed"
	default:
		return "sealed"
	}
}

// ParseZone is the inverse of Zone.String.
func ParseZone(s string) (Zone, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown":
		return Zone{}, true
	case "sealed":
		return NewZone(false), true
	case "unsealed":
		return NewZone(true), true
	default:
		return Zone{}, false
	}
}
