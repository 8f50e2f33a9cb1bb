package event

import (
	"strconv"
	"strings"
)

// EventType is the type of a system status event. Values are protocol codes.
type EventType uint8

const (
	Unsealed           EventType = 0x00
	Sealed             EventType = 0x01
	Alarm              EventType = 0x02
	AlarmRestore       EventType = 0x03
	ManualExclude      EventType = 0x04
	ManualInclude      EventType = 0x05
	AutoExclude        EventType = 0x06
	AutoInclude        EventType = 0x07
	TamperUnsealed     EventType = 0x08
	TamperNormal       EventType = 0x09
	PowerFailure       EventType = 0x10
	PowerNormal        EventType = 0x11
	BatteryFailure     EventType = 0x12
	BatteryNormal      EventType = 0x13
	ReportFailure      EventType = 0x14
	ReportNormal       EventType = 0x15
	SupervisionFailure EventType = 0x16
	SupervisionNormal  EventType = 0x17
	RealTimeClock      EventType = 0x19
	EntryDelayStart    EventType = 0x20
	EntryDelayEnd      EventType = 0x21
	ExitDelayStart     EventType = 0x22
	ExitDelayEnd       EventType = 0x23
	ArmedAway          EventType = 0x24
	ArmedHome          EventType = 0x25
	ArmedDay           EventType = 0x26
	ArmedNight         EventType = 0x27
	ArmedVacation      EventType = 0x28
	ArmedHighest       EventType = 0x2e
	Disarmed           EventType = 0x2f
	ArmingDelayed      EventType = 0x30
	OutputOn           EventType = 0x31
	OutputOff          EventType = 0x32
)

//nolint:gochecknoglobals // Read-only lookup table.
var eventTypeNames = map[EventType]string{
	Unsealed:           "UNSEALED",
	Sealed:             "SEALED",
	Alarm:              "ALARM",
	AlarmRestore:       "ALARM_RESTORE",
	ManualExclude:      "MANUAL_EXCLUDE",
	ManualInclude:      "MANUAL_INCLUDE",
	AutoExclude:        "AUTO_EXCLUDE",
	AutoInclude:        "AUTO_INCLUDE",
	TamperUnsealed:     "TAMPER_UNSEALED",
	TamperNormal:       "TAMPER_NORMAL",
	PowerFailure:       "POWER_FAILURE",
	PowerNormal:        "POWER_NORMAL",
	BatteryFailure:     "BATTERY_FAILURE",
	BatteryNormal:      "BATTERY_NORMAL",
	ReportFailure:      "REPORT_FAILURE",
	ReportNormal:       "REPORT_NORMAL",
	SupervisionFailure: "SUPERVISION_FAILURE",
	SupervisionNormal:  "SUPERVISION_NORMAL",
	RealTimeClock:      "REAL_TIME_CLOCK",
	EntryDelayStart:    "ENTRY_DELAY_START",
	EntryDelayEnd:      "ENTRY_DELAY_END",
	ExitDelayStart:     "EXIT_DELAY_START",
	ExitDelayEnd:       "EXIT_DELAY_END",
	ArmedAway:          "ARMED_AWAY",
	ArmedHome:          "ARMED_HOME",
	ArmedDay:           "ARMED_DAY",
	ArmedNight:         "ARMED_NIGHT",
	ArmedVacation:      "ARMED_VACATION",
	ArmedHighest:       "ARMED_HIGHEST",
	Disarmed:           "DISARMED",
	ArmingDelayed:      "ARMING_DELAYED",
	OutputOn:           "OUTPUT_ON",
	OutputOff:          "OUTPUT_OFF",
}

// String returns the event type name.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}

	return "EVENT_0x" + strconv.FormatUint(uint64(t), 16)
}

// ParseEventType resolves an event type by its name, or by the EVENT_0x<code>
// form String uses for codes without a name.
func ParseEventType(name string) (EventType, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for eventType, candidate := range eventTypeNames {
		if candidate == name {
			return eventType, true
		}
	}

	code, ok := parseHexCode(name, "EVENT_0X")

	return EventType(code), ok
}

// parseHexCode parses the one-byte code following prefix in an upper-cased name.
func parseHexCode(name, prefix string) (uint8, bool) {
	digits, found := strings.CutPrefix(name, prefix)
	if !found || digits == "" {
		return 0, false
	}

	code, err := strconv.ParseUint(digits, 16, 8)
	if err != nil {
		return 0, false
	}

	return uint8(code), true
}

// SystemStatusEvent is an unsolicited event pushed by the panel.
type SystemStatusEvent struct {
	// Type is what happened.
	Type EventType
	// Zone is the affected zone (1..16), or 0 when the event is not zone related.
	Zone int
	// Area is the affected area, or 0 when the event is not area related.
	Area int
}

// Kind implements Event.
func (*SystemStatusEvent) Kind() Kind {
	return KindSystemStatus
}
