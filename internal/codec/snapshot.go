package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-panel/internal/domain/alarm"
)

// Struct field names.
const (
	FieldArmingState      = "arming_state"
	FieldArmingMode       = "arming_mode"
	FieldInferArmingState = "infer_arming_state"
	FieldZones            = "zones"
)

var (
	// errNoSnapshot is returned when a nil Struct is decoded.
	errNoSnapshot = errors.New("snapshot is not set")
	// errBadState is returned for unknown arming state names.
	errBadState = errors.New("unknown arming state")
	// errBadMode is returned for unknown arming mode names.
	errBadMode = errors.New("unknown arming mode")
	// errBadZones is returned when the zone list is malformed.
	errBadZones = errors.New("malformed zones")
)

// ToStruct converts a snapshot into a protobuf Struct.
func ToStruct(snapshot alarm.Snapshot) (*structpb.Struct, error) {
	zones := make([]any, len(snapshot.Zones))
	for i, zone := range snapshot.Zones {
		zones[i] = zone.String()
	}

	result, err := structpb.NewStruct(map[string]any{
		FieldArmingState:      snapshot.State.String(),
		FieldArmingMode:       snapshot.Mode.String(),
		FieldInferArmingState: snapshot.InferArmingState,
		FieldZones:            zones,
	})
	if err != nil {
		return nil, fmt.Errorf("build snapshot struct: %w", err)
	}

	return result, nil
}

// FromStruct converts a protobuf Struct produced by ToStruct back into a snapshot.
func FromStruct(value *structpb.Struct) (alarm.Snapshot, error) {
	var snapshot alarm.Snapshot

	if value == nil {
		return snapshot, errNoSnapshot
	}

	fields := value.GetFields()

	stateName := fields[FieldArmingState].GetStringValue()

	state, ok := alarm.ParseArmingState(stateName)
	if !ok {
		return snapshot, fmt.Errorf("%w: %q", errBadState, stateName)
	}

	modeName := fields[FieldArmingMode].GetStringValue()

	mode, ok := alarm.ParseArmingMode(modeName)
	if !ok {
		return snapshot, fmt.Errorf("%w: %q", errBadMode, modeName)
	}

	zones := fields[FieldZones].GetListValue().GetValues()
	if len(zones) != alarm.ZoneCount {
		return snapshot, fmt.Errorf("%w: got %d zones", errBadZones, len(zones))
	}

	for i, item := range zones {
		zone, ok := alarm.ParseZone(item.GetStringValue())
		if !ok {
			return snapshot, fmt.Errorf("%w: zone %d is %q", errBadZones, i+1, item.GetStringValue())
		}

		snapshot.Zones[i] = zone
	}

	snapshot.State = state
	snapshot.Mode = mode
	snapshot.InferArmingState = fields[FieldInferArmingState].GetBoolValue()

	return snapshot, nil
}
