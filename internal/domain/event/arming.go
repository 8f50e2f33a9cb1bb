package event

import "strings"

// ArmingStatus is a set of arming flags reported by an arming-status request.
type ArmingStatus uint16

const (
	AreaOneArmed ArmingStatus = 1 << iota
	AreaTwoArmed
	AreaOneFullyArmed
	AreaTwoFullyArmed
	MonitorArmed
	DayModeArmed
	EntryDelayOneOn
	EntryDelayTwoOn
	ManualExcludeMode
	MemoryMode
	DayZoneSelect
)

// armingStatusNames lists flag names in bit order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var armingStatusNames = [...]struct {
	flag ArmingStatus
	name string
}{
	{AreaOneArmed, "AREA_1_ARMED"},
	{AreaTwoArmed, "AREA_2_ARMED"},
	{AreaOneFullyArmed, "AREA_1_FULLY_ARMED"},
	{AreaTwoFullyArmed, "AREA_2_FULLY_ARMED"},
	{MonitorArmed, "MONITOR_ARMED"},
	{DayModeArmed, "DAY_MODE_ARMED"},
	{EntryDelayOneOn, "ENTRY_DELAY_1_ON"},
	{EntryDelayTwoOn, "ENTRY_DELAY_2_ON"},
	{ManualExcludeMode, "MANUAL_EXCLUDE_MODE"},
	{MemoryMode, "MEMORY_MODE"},
	{DayZoneSelect, "DAY_ZONE_SELECT"},
}

// Has reports whether every flag of f is set in s.
func (s ArmingStatus) Has(f ArmingStatus) bool {
	return s&f == f
}

// Names returns the names of the set flags in bit order.
func (s ArmingStatus) Names() []string {
	names := make([]string, 0, len(armingStatusNames))

	for _, entry := range armingStatusNames {
		if s.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}

	return names
}

// String renders the set as "A|B", or "NONE" when empty.
func (s ArmingStatus) String() string {
	if s == 0 {
		return "NONE"
	}

	return strings.Join(s.Names(), "|")
}

// ParseArmingStatusFlag resolves a single flag by its name.
func ParseArmingStatusFlag(name string) (ArmingStatus, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for _, entry := range armingStatusNames {
		if entry.name == name {
			return entry.flag, true
		}
	}

	return 0, false
}

// ArmingUpdate is the response to an arming-status request.
type ArmingUpdate struct {
	// Status holds the reported arming flags.
	Status ArmingStatus
}

// Kind implements Event.
func (*ArmingUpdate) Kind() Kind {
	return KindArmingUpdate
}
