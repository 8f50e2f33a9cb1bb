package feed

import (
	"errors"
	"fmt"

	"github.com/oshokin/alarm-panel/internal/domain/event"
)

// Record is the serialized form of a single event.
type Record struct {
	// Kind is the event variant: arming_update, zone_update or system_status.
	Kind string `yaml:"kind" json:"kind"`
	// Status lists arming flag names of an arming_update.
	Status []string `yaml:"status,omitempty" json:"status,omitempty"`
	// Request is the request id name of a zone_update.
	Request string `yaml:"request,omitempty" json:"request,omitempty"`
	// Zones lists the included zone numbers of a zone_update.
	Zones []int `yaml:"zones,omitempty" json:"zones,omitempty"`
	// Type is the event type name of a system_status.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Zone is the zone number of a system_status.
	Zone int `yaml:"zone,omitempty" json:"zone,omitempty"`
	// Area is the area number of a system_status.
	Area int `yaml:"area,omitempty" json:"area,omitempty"`
}

var (
	// ErrUnknownKind is returned for records of an unsupported kind.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrUnknownFlag is returned for arming flags that do not exist.
	ErrUnknownFlag = errors.New("unknown arming flag")
	// ErrUnknownRequest is returned for zone request ids that do not exist.
	ErrUnknownRequest = errors.New("unknown zone request")
	// ErrUnknownType is returned for system event types that do not exist.
	ErrUnknownType = errors.New("unknown system event type")
	// ErrInvalidZone is returned for zone numbers outside 1..16.
	ErrInvalidZone = errors.New("invalid zone number")
)

// Event converts the record into a typed event.
func (r *Record) Event() (event.Event, error) {
	switch r.Kind {
	case event.KindArmingUpdate.String():
		return r.armingUpdate()
	case event.KindZoneUpdate.String():
		return r.zoneUpdate()
	case event.KindSystemStatus.String():
		return r.systemStatus()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

func (r *Record) armingUpdate() (*event.ArmingUpdate, error) {
	var status event.ArmingStatus

	for _, name := range r.Status {
		flag, ok := event.ParseArmingStatusFlag(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
		}

		status |= flag
	}

	return &event.ArmingUpdate{Status: status}, nil
}

func (r *Record) zoneUpdate() (*event.ZoneUpdate, error) {
	requestID := event.ZoneInputUnsealed

	if r.Request != "" {
		var ok bool

		requestID, ok = event.ParseRequestID(r.Request)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRequest, r.Request)
		}
	}

	var zones event.ZoneSet

	for _, id := range r.Zones {
		flag := event.ZoneFlag(id)
		if flag == 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidZone, id)
		}

		zones |= flag
	}

	return &event.ZoneUpdate{RequestID: requestID, IncludedZones: zones}, nil
}

func (r *Record) systemStatus() (*event.SystemStatusEvent, error) {
	eventType, ok := event.ParseEventType(r.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}

	if r.Zone < 0 || r.Zone > event.MaxZone {
		return nil, fmt.Errorf("%w: %d", ErrInvalidZone, r.Zone)
	}

	return &event.SystemStatusEvent{Type: eventType, Zone: r.Zone, Area: r.Area}, nil
}

// FromEvent converts a typed event back into a record.
// ok is false for variants that have no record form.
func FromEvent(ev event.Event) (record Record, ok bool) {
	switch typed := ev.(type) {
	case *event.ArmingUpdate:
		return Record{
			Kind:   event.KindArmingUpdate.String(),
			Status: typed.Status.Names(),
		}, true
	case *event.ZoneUpdate:
		return Record{
			Kind:    event.KindZoneUpdate.String(),
			Request: typed.RequestID.String(),
			Zones:   typed.IncludedZones.IDs(),
		}, true
	case *event.SystemStatusEvent:
		return Record{
			Kind: event.KindSystemStatus.String(),
			Type: typed.Type.String(),
			Zone: typed.Zone,
			Area: typed.Area,
		}, true
	default:
		return Record{}, false
	}
}
