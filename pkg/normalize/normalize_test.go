package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/roffe/memslog/internal/logtest"
	"github.com/roffe/memslog/pkg/decoder"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/roffe/memslog/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, lg *logtest.Log) *table.RunTable {
	t.Helper()
	s := decoder.NewSession()
	frames, err := s.Decode(strings.NewReader(lg.String()))
	require.NoError(t, err)
	tbl, err := table.Assemble(s.Version(), frames.Primary, frames.Secondary)
	require.NoError(t, err)
	return tbl
}

func single(t *testing.T, smp *logtest.Sample) *table.Normalized {
	t.Helper()
	lg := &logtest.Log{Samples: []*logtest.Sample{smp}}
	if smp.Version() == rosco.VersionB {
		lg.VersionCode = "99 00 03 03"
	}
	n, err := Normalize(assemble(t, lg), Options{})
	require.NoError(t, err)
	return n
}

func value(t *testing.T, n *table.Normalized, col string) float64 {
	t.Helper()
	v, ok := n.Column(col)
	require.True(t, ok, "missing column %s", col)
	return v[0]
}

func TestMergeBytesRoundTrip(t *testing.T) {
	hi := make([]string, 0, 256*256)
	lo := make([]string, 0, 256*256)
	index := make([]int, 0, 256*256)
	for h := 0; h < 256; h++ {
		for l := 0; l < 256; l++ {
			hi = append(hi, fmt.Sprintf("%02x", h))
			lo = append(lo, fmt.Sprintf("%02x", l))
			index = append(index, len(index))
		}
	}
	tbl := rawTable(t, index, map[string][]string{
		rosco.HighByte(rosco.FieldEngineSpeed): hi,
		rosco.LowByte(rosco.FieldEngineSpeed):  lo,
	})
	require.NoError(t, MergeBytes(tbl, rosco.FieldEngineSpeed))
	assert.False(t, tbl.Has(rosco.HighByte(rosco.FieldEngineSpeed)))
	assert.False(t, tbl.Has(rosco.LowByte(rosco.FieldEngineSpeed)))

	merged, ok := tbl.Column(rosco.FieldEngineSpeed)
	require.True(t, ok)
	for i, m := range merged {
		v, err := strconv.ParseUint(m, 16, 16)
		require.NoError(t, err)
		h, l := i/256, i%256
		if int(v>>8) != h || int(v&0xFF) != l {
			t.Fatalf("row %d: %s does not split back to %02x %02x", i, m, h, l)
		}
	}
}

func rawTable(t *testing.T, index []int, cols map[string][]string) *table.RunTable {
	t.Helper()
	tbl := table.New(rosco.VersionA, index)
	for name, vals := range cols {
		require.NoError(t, tbl.SetColumn(name, vals))
	}
	return tbl
}

func TestMergeBytesIsBitShifted(t *testing.T) {
	n := single(t, logtest.NewSample(rosco.VersionA).
		Set(rosco.HighByte(rosco.FieldEngineSpeed), 0x03).
		Set(rosco.LowByte(rosco.FieldEngineSpeed), 0x20).
		SetWord(rosco.FieldCoilTime, 0x0FA0).
		SetWord(rosco.FieldIdleSpeedDeviation, 0x0102))
	assert.Equal(t, 800.0, value(t, n, rosco.FieldEngineSpeed), "0x03<<8 | 0x20, not 0x03 + 0x20")
	assert.InDelta(t, 8.0, value(t, n, rosco.FieldCoilTime), 1e-9)
	assert.Equal(t, 258.0, value(t, n, rosco.FieldIdleSpeedDeviation))
}

func TestUnitScaling(t *testing.T) {
	tests := []struct {
		field string
		raw   byte
		want  float64
	}{
		{rosco.FieldBatteryVoltage, 0x7B, 12.3},
		{rosco.FieldThrottlePotVoltage, 0xFA, 5.0},
		{rosco.FieldShortTermTrim, 110, 1.0},
		{rosco.FieldShortTermTrim, 90, -1.0},
		{rosco.FieldLongTermTrim, 0x80, 0},
		{rosco.FieldLongTermTrim, 0x7E, -2},
		{rosco.FieldIgnitionAdvance, 0x00, -24},
		{rosco.FieldIgnitionAdvance, 0xFF, 103.5},
		{rosco.FieldIdleAirControlPosition, 90, 50},
		{rosco.FieldLambdaVoltage, 90, 450},
		{rosco.FieldThrottleAngle, 100, 60},
		{rosco.FieldAirFuelRatio, 147, 14.7},
		{rosco.FieldIdleSpeedOffset, 130, 50},
		{rosco.FieldIdleSpeedOffset, 120, -200},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.field, tt.raw), func(t *testing.T) {
			n := single(t, logtest.NewSample(rosco.VersionA).Set(tt.field, tt.raw))
			assert.InDelta(t, tt.want, value(t, n, tt.field), 1e-9)
		})
	}
}

func TestTemperatureFormulas(t *testing.T) {
	smp := logtest.NewSample(rosco.VersionA).
		Set(rosco.FieldCoolantTemperature, 130).
		Set(rosco.FieldAmbientTemperature, 55).
		Set(rosco.FieldIntakeAirTemperature, 32).
		Set(rosco.FieldFuelTemperature, 212)
	tbl := assemble(t, &logtest.Log{Samples: []*logtest.Sample{smp}})

	ecu, err := Normalize(tbl, Options{Temperature: TempECUOffset})
	require.NoError(t, err)
	assert.Equal(t, 75.0, value(t, ecu, rosco.FieldCoolantTemperature))
	assert.Equal(t, 0.0, value(t, ecu, rosco.FieldAmbientTemperature))
	assert.Equal(t, -23.0, value(t, ecu, rosco.FieldIntakeAirTemperature))
	assert.Equal(t, 157.0, value(t, ecu, rosco.FieldFuelTemperature))

	f, err := Normalize(tbl, Options{Temperature: TempFahrenheit})
	require.NoError(t, err)
	assert.InDelta(t, 54.444, value(t, f, rosco.FieldCoolantTemperature), 1e-3)
	assert.Equal(t, 0.0, value(t, f, rosco.FieldIntakeAirTemperature))
	assert.Equal(t, 100.0, value(t, f, rosco.FieldFuelTemperature))
}

func TestDefaultTemperatureIsECUOffset(t *testing.T) {
	formula, err := ParseTemperature("")
	require.NoError(t, err)
	assert.Equal(t, TempECUOffset, formula)
	assert.Equal(t, TempECUOffset, Options{}.Temperature)
	_, err = ParseTemperature("kelvin")
	assert.Error(t, err)
}

func TestFaultLayoutsAgree(t *testing.T) {
	tests := []struct {
		name            string
		sensor, circuit byte
		want            [4]float64
	}{
		{"clear", 0x00, 0x00, [4]float64{0, 0, 0, 0}},
		{"coolant", 0x01, 0x00, [4]float64{1, 0, 0, 0}},
		{"inlet air", 0x02, 0x00, [4]float64{0, 1, 0, 0}},
		{"fuel pump", 0x00, 0x01, [4]float64{0, 0, 1, 0}},
		{"throttle pot", 0x00, 0x40, [4]float64{0, 0, 0, 1}},
		{"all", 0x03, 0x41, [4]float64{1, 1, 1, 1}},
		{"other bits ignored", 0xFC, 0xBE, [4]float64{0, 0, 0, 0}},
	}
	cols := []string{
		rosco.FieldCoolantTempSensorFault,
		rosco.FieldInletAirTempSensorFault,
		rosco.FieldFuelPumpCircuitFault,
		rosco.FieldThrottlePotCircuitFault,
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := single(t, logtest.NewSample(rosco.VersionA).
				Set(rosco.FieldSensorFaultByte, tt.sensor).
				Set(rosco.FieldCircuitFaultByte, tt.circuit))
			b := single(t, logtest.NewSample(rosco.VersionB).
				Set(rosco.HighByte(rosco.FieldFaultCodes), tt.sensor).
				Set(rosco.LowByte(rosco.FieldFaultCodes), tt.circuit))
			require.Equal(t, rosco.VersionB, b.Version())
			for i, c := range cols {
				assert.Equal(t, tt.want[i], value(t, a, c), "version a %s", c)
				assert.Equal(t, tt.want[i], value(t, b, c), "version b %s", c)
			}
		})
	}
}

func TestNormalizeNonHexValue(t *testing.T) {
	tbl := assemble(t, &logtest.Log{Samples: logtest.Repeat(3, func(i int) *logtest.Sample {
		return logtest.NewSample(rosco.VersionA)
	})})
	vals, _ := tbl.Column(rosco.FieldMapSensor)
	bad := append([]string{}, vals...)
	bad[2] = "zz"
	require.NoError(t, tbl.SetColumn(rosco.FieldMapSensor, bad))

	n, err := Normalize(tbl, Options{})
	assert.Nil(t, n)
	require.True(t, errors.Is(err, ErrNonHexValue))
	var te *TransformError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, rosco.FieldMapSensor, te.Column)
	assert.Equal(t, 2, te.Row)

	v, _ := tbl.Cell(2, rosco.FieldMapSensor)
	assert.Equal(t, "zz", v, "input table untouched")
	assert.True(t, tbl.Has(rosco.HighByte(rosco.FieldEngineSpeed)), "input table untouched")
}

func TestNormalizeMissingColumn(t *testing.T) {
	tests := []string{
		rosco.FieldBatteryVoltage,
		rosco.FieldFuelTemperature,
		rosco.LowByte(rosco.FieldCoilTime),
		rosco.FieldCircuitFaultByte,
	}
	for _, col := range tests {
		t.Run(col, func(t *testing.T) {
			tbl := assemble(t, &logtest.Log{Samples: []*logtest.Sample{logtest.NewSample(rosco.VersionA)}})
			tbl.DropColumn(col)
			_, err := Normalize(tbl, Options{})
			assert.True(t, errors.Is(err, ErrMissingColumn), "got %v", err)
		})
	}
}

func TestUnit(t *testing.T) {
	assert.Equal(t, "mV", Unit(rosco.FieldLambdaVoltage))
	assert.Equal(t, "C", Unit(rosco.FieldCoolantTemperature))
	assert.Equal(t, "rpm", Unit(rosco.FieldEngineSpeed))
	assert.Equal(t, "", Unit(rosco.FieldMapSensor))
}

func TestResolveFaultLayout(t *testing.T) {
	a := assemble(t, &logtest.Log{Samples: []*logtest.Sample{logtest.NewSample(rosco.VersionA)}})
	b := assemble(t, &logtest.Log{
		VersionCode: "99 00 03 03",
		Samples:     []*logtest.Sample{logtest.NewSample(rosco.VersionB)},
	})

	layout, err := ResolveFaultLayout(a)
	require.NoError(t, err)
	assert.Equal(t, SplitFaultBytes{}, layout)

	layout, err = ResolveFaultLayout(b)
	require.NoError(t, err)
	assert.Equal(t, CombinedFaultWord{}, layout)

	mixed := a.Clone()
	require.NoError(t, mixed.SetColumn(rosco.FieldFaultCodes, []string{"0000"}))
	_, err = ResolveFaultLayout(mixed)
	assert.True(t, errors.Is(err, ErrMissingColumn), "both layouts present: %v", err)

	none := a.Clone()
	none.DropColumn(rosco.FieldSensorFaultByte)
	none.DropColumn(rosco.FieldCircuitFaultByte)
	_, err = ResolveFaultLayout(none)
	assert.True(t, errors.Is(err, ErrMissingColumn), "no layout present: %v", err)
}
