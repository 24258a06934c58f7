package normalize

import (
	"fmt"

	"github.com/roffe/memslog/pkg/rosco"
	"github.com/roffe/memslog/pkg/table"
)

// FaultLayout describes how a firmware generation reports the sensor and
// circuit fault flags. It is resolved once per table.
type FaultLayout interface {
	Name() string
	// Pairs lists extra byte pairs the layout needs merged before extraction.
	Pairs() []string
	// Extract adds the four boolean fault columns as "00"/"01" cells.
	Extract(t *table.RunTable) error
}

type faultBit struct {
	column string
	mask   uint16
}

// SplitFaultBytes is the VersionA layout, one byte for the temperature sensor
// faults and one byte for the circuit faults.
type SplitFaultBytes struct{}

func (SplitFaultBytes) Name() string    { return "split fault bytes" }
func (SplitFaultBytes) Pairs() []string { return nil }

func (SplitFaultBytes) Extract(t *table.RunTable) error {
	bits := []faultBit{
		{rosco.FieldCoolantTempSensorFault, 0x01},
		{rosco.FieldInletAirTempSensorFault, 0x02},
		{rosco.FieldFuelPumpCircuitFault, 0x01},
		{rosco.FieldThrottlePotCircuitFault, 0x40},
	}
	sources := []string{
		rosco.FieldSensorFaultByte,
		rosco.FieldSensorFaultByte,
		rosco.FieldCircuitFaultByte,
		rosco.FieldCircuitFaultByte,
	}
	return extractBits(t, sources, bits)
}

// CombinedFaultWord is the VersionB layout, both fault bytes sent as one big
// endian word: sensor byte high, circuit byte low. Bit positions within each
// byte are the same as SplitFaultBytes.
type CombinedFaultWord struct{}

func (CombinedFaultWord) Name() string    { return "combined fault word" }
func (CombinedFaultWord) Pairs() []string { return []string{rosco.FieldFaultCodes} }

func (CombinedFaultWord) Extract(t *table.RunTable) error {
	bits := []faultBit{
		{rosco.FieldCoolantTempSensorFault, 0x0100},
		{rosco.FieldInletAirTempSensorFault, 0x0200},
		{rosco.FieldFuelPumpCircuitFault, 0x0001},
		{rosco.FieldThrottlePotCircuitFault, 0x0040},
	}
	sources := make([]string, len(bits))
	for i := range sources {
		sources[i] = rosco.FieldFaultCodes
	}
	return extractBits(t, sources, bits)
}

// ResolveFaultLayout picks the fault layout from the fault columns present.
// A table carrying both layouts, or neither, is rejected.
func ResolveFaultLayout(t *table.RunTable) (FaultLayout, error) {
	switch rosco.DetectVersion(t.Columns()) {
	case rosco.VersionA:
		return SplitFaultBytes{}, nil
	case rosco.VersionB:
		return CombinedFaultWord{}, nil
	}
	return nil, &TransformError{Kind: MissingColumn, Step: "fault layout", Column: rosco.FieldSensorFaultByte}
}

func extractBits(t *table.RunTable, sources []string, bits []faultBit) error {
	index := t.Index()
	for i, b := range bits {
		src, ok := t.Column(sources[i])
		if !ok {
			return &TransformError{Kind: MissingColumn, Step: "fault extraction", Column: sources[i]}
		}
		vals := make([]string, len(src))
		for r, cell := range src {
			v, err := parseHex(cell, 16)
			if err != nil {
				return &TransformError{Kind: NonHexValue, Step: "fault extraction", Column: sources[i], Row: index[r], Value: cell}
			}
			if uint16(v)&b.mask != 0 {
				vals[r] = "01"
			} else {
				vals[r] = "00"
			}
		}
		if err := t.SetColumn(b.column, vals); err != nil {
			return fmt.Errorf("fault extraction: %w", err)
		}
	}
	return nil
}
