package event

// Kind tags an event variant.
type Kind uint8

const (
	// KindUnknown is reported by variants the state machine does not model.
	KindUnknown Kind = iota
	// KindArmingUpdate tags *ArmingUpdate.
	KindArmingUpdate
	// KindZoneUpdate tags *ZoneUpdate.
	KindZoneUpdate
	// KindSystemStatus tags *SystemStatusEvent.
	KindSystemStatus
)

// Event is a single parsed status event received from the panel.
type Event interface {
	Kind() Kind
}

// String returns the feed name of the kind.
func (k Kind) String() string {
	switch k {
	case KindArmingUpdate:
		return "arming_update"
	case KindZoneUpdate:
		return "zone_update"
	case KindSystemStatus:
		return "system_status"
	default:
		return "unknown"
	}
}
