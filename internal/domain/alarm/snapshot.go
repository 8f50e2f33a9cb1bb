package alarm

// Snapshot is a point-in-time copy of the alarm model.
type Snapshot struct {
	// State is the arming state.
	State ArmingState
	// Mode is the mode of the current arming cycle, if any.
	Mode ArmingMode
	// InferArmingState is the configuration flag of the model.
	InferArmingState bool
	// Zones holds the zone states, index 0 being zone 1.
	Zones [ZoneCount]Zone
}

// Snapshot copies the current model so it can be read without holding the Alarm.
func (a *Alarm) Snapshot() Snapshot {
	return Snapshot{
		State:            a.state,
		Mode:             a.mode,
		InferArmingState: a.inferArmingState,
		Zones:            a.zones,
	}
}

// Unsealed returns the ids of zones known to be unsealed.
func (s Snapshot) Unsealed() []int {
	ids := make([]int, 0, ZoneCount)

	for i, zone := range s.Zones {
		if triggered, known := zone.Triggered(); known && triggered {
			ids = append(ids, i+1)
		}
	}

	return ids
}
