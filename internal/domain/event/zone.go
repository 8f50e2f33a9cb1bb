package event

import (
	"strconv"
	"strings"
)

// MaxZone is the highest zone number a panel reports.
const MaxZone = 16

// ZoneSet is a set of zones 1..MaxZone, one bit per zone.
type ZoneSet uint16

// ZoneFlag returns the set holding only zone id, or an empty set when id is out of range.
func ZoneFlag(id int) ZoneSet {
	if id < 1 || id > MaxZone {
		return 0
	}

	return ZoneSet(1) << (id - 1)
}

// ZonesOf builds a set from zone numbers, skipping invalid ones.
func ZonesOf(ids ...int) ZoneSet {
	var set ZoneSet
	for _, id := range ids {
		set |= ZoneFlag(id)
	}

	return set
}

// Contains reports whether zone id is in the set.
func (s ZoneSet) Contains(id int) bool {
	flag := ZoneFlag(id)

	return flag != 0 && s&flag != 0
}

// IDs returns the zone numbers in ascending order.
func (s ZoneSet) IDs() []int {
	ids := make([]int, 0, MaxZone)

	for id := 1; id <= MaxZone; id++ {
		if s.Contains(id) {
			ids = append(ids, id)
		}
	}

	return ids
}

// String renders the set as "ZONE_3|ZONE_7", or "NONE" when empty.
func (s ZoneSet) String() string {
	ids := s.IDs()
	if len(ids) == 0 {
		return "NONE"
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = "ZONE_" + strconv.Itoa(id)
	}

	return strings.Join(names, "|")
}

// RequestID identifies which status request a ZoneUpdate answers.
type RequestID uint8

// Request ids carry their protocol codes.
const (
	ZoneInputUnsealed          RequestID = 0x00
	ZoneRadioUnsealed          RequestID = 0x01
	ZoneCbusUnsealed           RequestID = 0x02
	ZoneInDelay                RequestID = 0x03
	ZoneInDoubleTrigger        RequestID = 0x04
	ZoneInAlarm                RequestID = 0x05
	ZoneExcluded               RequestID = 0x06
	ZoneAutoExcluded           RequestID = 0x07
	ZoneSupervisionFailPending RequestID = 0x08
	ZoneSupervisionFail        RequestID = 0x09
	ZoneDoorsOpen              RequestID = 0x10
	ZoneDetectorLowBattery     RequestID = 0x11
	ZoneDetectorTamper         RequestID = 0x12
)

//nolint:gochecknoglobals // Read-only lookup table.
var requestIDNames = map[RequestID]string{
	ZoneInputUnsealed:          "ZONE_INPUT_UNSEALED",
	ZoneRadioUnsealed:          "ZONE_RADIO_UNSEALED",
	ZoneCbusUnsealed:           "ZONE_CBUS_UNSEALED",
	ZoneInDelay:                "ZONE_IN_DELAY",
	ZoneInDoubleTrigger:        "ZONE_IN_DOUBLE_TRIGGER",
	ZoneInAlarm:                "ZONE_IN_ALARM",
	ZoneExcluded:               "ZONE_EXCLUDED",
	ZoneAutoExcluded:           "ZONE_AUTO_EXCLUDED",
	ZoneSupervisionFailPending: "ZONE_SUPERVISION_FAIL_PENDING",
	ZoneSupervisionFail:        "ZONE_SUPERVISION_FAIL",
	ZoneDoorsOpen:              "ZONE_DOORS_OPEN",
	ZoneDetectorLowBattery:     "ZONE_DETECTOR_LOW_BATTERY",
	ZoneDetectorTamper:         "ZONE_DETECTOR_TAMPER",
}

// String returns the request name.
func (r RequestID) String() string {
	if name, ok := requestIDNames[r]; ok {
		return name
	}

	return "REQUEST_0x" + strconv.FormatUint(uint64(r), 16)
}

// ParseRequestID resolves a request id by its name, or by the REQUEST_0x<code>
// form String uses for codes without a name.
func ParseRequestID(name string) (RequestID, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for id, candidate := range requestIDNames {
		if candidate == name {
			return id, true
		}
	}

	code, ok := parseHexCode(name, "REQUEST_0X")

	return RequestID(code), ok
}

// ZoneUpdate is the response to one of the zone status requests.
type ZoneUpdate struct {
	// RequestID is the request this update answers.
	RequestID RequestID
	// IncludedZones holds the zones the request reported on.
	IncludedZones ZoneSet
}

// Kind implements Event.
func (*ZoneUpdate) Kind() Kind {
	return KindZoneUpdate
}
