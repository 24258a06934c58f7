// Package rosco describes the Rover MEMS diagnostic protocol (ROSCO): the data
// frame layouts returned by the ECU, command codes and the init handshake.
//
// Multi-byte fields are sent big-endian. All tables in this package are read
// only and safe for concurrent use.
package rosco

import (
	"strings"
)

const (
	CmdDataFrame7D byte = 0x7D
	CmdDataFrame80 byte = 0x80

	// Primary is the frame that advances the run sequence counter, the
	// secondary frame shares the index of the primary that follows it.
	Primary   = CmdDataFrame7D
	Secondary = CmdDataFrame80
)

type SchemaVersion int

const (
	UnknownVersion SchemaVersion = iota
	// VersionA MNE101070, fault flags in two separate bytes.
	VersionA
	// VersionB MNE101170, fault flags in one 16 bit word.
	VersionB
)

func (v SchemaVersion) String() string {
	switch v {
	case VersionA:
		return "A (MNE101070)"
	case VersionB:
		return "B (MNE101170)"
	default:
		return "Unknown schema"
	}
}

// ParseVersion accepts the schema letter or the ECU id.
func ParseVersion(s string) SchemaVersion {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "mne101070":
		return VersionA
	case "b", "mne101170":
		return VersionB
	default:
		return UnknownVersion
	}
}

type FrameSchema struct {
	Command byte
	Fields  []string
}

var frame7d = []string{
	"dataframe_size_7d",
	"ignition_switch",
	FieldThrottleAngle,
	"0x03",
	FieldAirFuelRatio,
	"dtc2",
	FieldLambdaVoltage,
	"lambda_frequency",
	"lambda_duty_cycle",
	"lambda_status",
	"loop_indicator",
	FieldLongTermTrim,
	FieldShortTermTrim,
	"carbon_canister_purge_valve_duty_cycle",
	"dtc3",
	"idle_base_position",
	"0x10",
	"dtc4",
	"ignition_advance_offset_7d",
	FieldIdleSpeedOffset,
	"idle_error",
	"0x15",
	"dtc5",
	"0x17",
	"0x18",
	"0x19",
	"0x1A",
	"0x1B",
	"0x1C",
	"0x1D",
	"0x1E",
	"jack_count_number",
}

// frame80 builds the 0x80 layout, the two fault slots (0x0D, 0x0E) and
// byte 0x11 differ between firmware generations.
func frame80(faultHi, faultLo, b11 string) []string {
	return []string{
		"dataframe_size_80",
		HighByte(FieldEngineSpeed),
		LowByte(FieldEngineSpeed),
		FieldCoolantTemperature,
		FieldAmbientTemperature,
		FieldIntakeAirTemperature,
		FieldFuelTemperature,
		FieldMapSensor,
		FieldBatteryVoltage,
		FieldThrottlePotVoltage,
		"idle_switch",
		"aircon_switch",
		"park_neutral_switch",
		faultHi,
		faultLo,
		"idle_set_point",
		"idle_decay",
		b11,
		FieldIdleAirControlPosition,
		HighByte(FieldIdleSpeedDeviation),
		LowByte(FieldIdleSpeedDeviation),
		"ignition_advance_offset_80",
		FieldIgnitionAdvance,
		HighByte(FieldCoilTime),
		LowByte(FieldCoilTime),
		"crankshaft_position_sensor",
		"80x1A",
		"80x1B",
	}
}

var schemas = map[SchemaVersion][]FrameSchema{
	VersionA: {
		{CmdDataFrame7D, frame7d},
		{CmdDataFrame80, frame80(FieldSensorFaultByte, FieldCircuitFaultByte, "80x11")},
	},
	VersionB: {
		{CmdDataFrame7D, frame7d},
		{CmdDataFrame80, frame80(HighByte(FieldFaultCodes), LowByte(FieldFaultCodes), "idle_hot")},
	},
}

// FieldsFor returns a copy of the ordered field list of the frame answered to
// the command code.
func FieldsFor(code byte, v SchemaVersion) ([]string, error) {
	for _, s := range schemas[v] {
		if s.Command == code {
			out := make([]string, len(s.Fields))
			copy(out, s.Fields)
			return out, nil
		}
	}
	return nil, &SchemaError{Kind: UnknownCommand, Code: code, Version: v}
}

// Frames returns the data frame schemas of a version in protocol order.
func Frames(v SchemaVersion) []FrameSchema {
	out := make([]FrameSchema, 0, len(schemas[v]))
	for _, s := range schemas[v] {
		fields := make([]string, len(s.Fields))
		copy(fields, s.Fields)
		out = append(out, FrameSchema{Command: s.Command, Fields: fields})
	}
	return out
}

// IsDataFrame reports if code is answered with a data frame in any schema.
func IsDataFrame(code byte) bool {
	return code == CmdDataFrame7D || code == CmdDataFrame80
}

// DetectVersion picks the schema from the named columns present in a table.
func DetectVersion(columns []string) SchemaVersion {
	var split, combined bool
	for _, c := range columns {
		switch c {
		case FieldSensorFaultByte, FieldCircuitFaultByte:
			split = true
		case FieldFaultCodes, HighByte(FieldFaultCodes), LowByte(FieldFaultCodes):
			combined = true
		}
	}
	switch {
	case combined && !split:
		return VersionB
	case split && !combined:
		return VersionA
	default:
		return UnknownVersion
	}
}
