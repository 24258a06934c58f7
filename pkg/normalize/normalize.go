// Package normalize decodes an assembled RunTable into physical units.
//
// The pipeline order is fixed: byte pairs are merged while still raw bytes,
// fault flags are masked out of the raw fault bytes, every cell is then
// parsed to an integer and finally scaled.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roffe/memslog/pkg/rosco"
	"github.com/roffe/memslog/pkg/table"
	"github.com/rs/zerolog/log"
)

type TemperatureFormula int

const (
	// TempECUOffset is the linear ECU count approximation, raw - 55.
	TempECUOffset TemperatureFormula = iota
	// TempFahrenheit treats the raw count as degrees Fahrenheit.
	TempFahrenheit
)

func (f TemperatureFormula) String() string {
	switch f {
	case TempECUOffset:
		return "ecu"
	case TempFahrenheit:
		return "fahrenheit"
	default:
		return "unknown"
	}
}

func ParseTemperature(s string) (TemperatureFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ecu", "offset", "linear":
		return TempECUOffset, nil
	case "fahrenheit", "f":
		return TempFahrenheit, nil
	default:
		return 0, fmt.Errorf("unknown temperature formula %q", s)
	}
}

func (f TemperatureFormula) convert(raw float64) float64 {
	if f == TempFahrenheit {
		return (raw - 32) * 5 / 9
	}
	return raw - 55
}

type Options struct {
	Temperature TemperatureFormula
}

// Normalize runs the full pipeline on a copy of t, t is left untouched. On
// error no table is returned.
func Normalize(t *table.RunTable, opts Options) (*table.Normalized, error) {
	w := t.Clone()

	layout, err := ResolveFaultLayout(w)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("layout", layout.Name()).Int("rows", w.Len()).Msg("normalizing run")

	pairs := append(append([]string{}, rosco.MergedFields...), layout.Pairs()...)
	if err := MergeBytes(w, pairs...); err != nil {
		return nil, err
	}
	if err := layout.Extract(w); err != nil {
		return nil, err
	}
	n, err := HexToInteger(w)
	if err != nil {
		return nil, err
	}
	if err := ScaleUnits(n); err != nil {
		return nil, err
	}
	if err := ConvertTemperatures(n, opts.Temperature); err != nil {
		return nil, err
	}
	return n, nil
}

func parseHex(s string, bits int) (uint64, error) {
	return strconv.ParseUint(s, 16, bits)
}

// MergeBytes combines each <field>_high_byte/<field>_low_byte pair into one
// 16 bit big-endian value (high<<8 | low) and drops the pair.
func MergeBytes(t *table.RunTable, fields ...string) error {
	index := t.Index()
	for _, f := range fields {
		hiName, loName := rosco.HighByte(f), rosco.LowByte(f)
		hi, ok := t.Column(hiName)
		if !ok {
			return &TransformError{Kind: MissingColumn, Step: "byte merge", Column: hiName}
		}
		lo, ok := t.Column(loName)
		if !ok {
			return &TransformError{Kind: MissingColumn, Step: "byte merge", Column: loName}
		}
		vals := make([]string, len(hi))
		for r := range hi {
			h, err := parseHex(hi[r], 8)
			if err != nil {
				return &TransformError{Kind: NonHexValue, Step: "byte merge", Column: hiName, Row: index[r], Value: hi[r]}
			}
			l, err := parseHex(lo[r], 8)
			if err != nil {
				return &TransformError{Kind: NonHexValue, Step: "byte merge", Column: loName, Row: index[r], Value: lo[r]}
			}
			vals[r] = fmt.Sprintf("%04x", uint16(h)<<8|uint16(l))
		}
		if err := t.SetColumn(f, vals); err != nil {
			return err
		}
		t.DropColumn(hiName)
		t.DropColumn(loName)
	}
	return nil
}

// HexToInteger parses every cell of t as a hex integer.
func HexToInteger(t *table.RunTable) (*table.Normalized, error) {
	index := t.Index()
	n := table.NewNormalized(t.Version(), index)
	for _, c := range t.Columns() {
		cells, _ := t.Column(c)
		vals := make([]float64, len(cells))
		for r, cell := range cells {
			v, err := parseHex(cell, 32)
			if err != nil {
				return nil, &TransformError{Kind: NonHexValue, Step: "hex to integer", Column: c, Row: index[r], Value: cell}
			}
			vals[r] = float64(v)
		}
		if err := n.Set(c, vals); err != nil {
			return nil, err
		}
	}
	return n, nil
}

type scaling struct {
	field string
	unit  string
	fn    func(raw float64) float64
}

var scalings = []scaling{
	{rosco.FieldBatteryVoltage, "V", func(x float64) float64 { return x / 10 }},
	{rosco.FieldThrottlePotVoltage, "V", func(x float64) float64 { return x / 50 }},
	{rosco.FieldShortTermTrim, "%", func(x float64) float64 { return (x - 100) / 10 }},
	{rosco.FieldLongTermTrim, "%", func(x float64) float64 { return x - 128 }},
	{rosco.FieldIgnitionAdvance, "deg", func(x float64) float64 { return x/2 - 24 }},
	{rosco.FieldCoilTime, "ms", func(x float64) float64 { return x / 500 }},
	{rosco.FieldIdleAirControlPosition, "%", func(x float64) float64 { return x / 1.8 }},
	{rosco.FieldLambdaVoltage, "mV", func(x float64) float64 { return x * 5 }},
	{rosco.FieldThrottleAngle, "deg", func(x float64) float64 { return x * 6 / 10 }},
	{rosco.FieldAirFuelRatio, ":1", func(x float64) float64 { return x / 10 }},
	{rosco.FieldIdleSpeedOffset, "rpm", func(x float64) float64 { return (x - 128) * 25 }},
}

// Unit returns the physical unit of a normalized column, empty for raw
// counts and flags.
func Unit(field string) string {
	for _, s := range scalings {
		if s.field == field {
			return s.unit
		}
	}
	for _, t := range rosco.TemperatureFields {
		if t == field {
			return "C"
		}
	}
	if field == rosco.FieldEngineSpeed {
		return "rpm"
	}
	return ""
}

// ScaleUnits converts raw integers to physical units in place.
func ScaleUnits(n *table.Normalized) error {
	for _, s := range scalings {
		if err := apply(n, "unit scaling", s.field, s.fn); err != nil {
			return err
		}
	}
	return nil
}

// ConvertTemperatures converts the four temperature columns to Celsius.
func ConvertTemperatures(n *table.Normalized, f TemperatureFormula) error {
	for _, c := range rosco.TemperatureFields {
		if err := apply(n, "temperature conversion", c, f.convert); err != nil {
			return err
		}
	}
	return nil
}

func apply(n *table.Normalized, step, col string, fn func(float64) float64) error {
	src, ok := n.Column(col)
	if !ok {
		return &TransformError{Kind: MissingColumn, Step: step, Column: col}
	}
	vals := make([]float64, len(src))
	for i, v := range src {
		vals[i] = fn(v)
	}
	return n.Set(col, vals)
}
