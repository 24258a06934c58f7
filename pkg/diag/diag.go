// Package diag runs the rule based fault diagnosis over a normalized run.
//
// Analyse is a pure function of the table: the same table always yields the
// same faults in the same order. Rule order matters, the report lists faults
// in the order they were found.
package diag

import (
	"fmt"
	"strings"

	"github.com/roffe/memslog/pkg/normalize"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/roffe/memslog/pkg/stats"
	"github.com/roffe/memslog/pkg/table"
	"github.com/rs/zerolog/log"
)

type FaultCode string

const (
	CoolantTempSensorFault  FaultCode = "coolant_temp_sensor_fault"
	InletAirTempSensorFault FaultCode = "inlet_air_temp_sensor_fault"
	FuelPumpCircuitFault    FaultCode = "fuel_pump_circuit_fault"
	ThrottlePotCircuitFault FaultCode = "throttle_pot_circuit_fault"
	MapSensorFault          FaultCode = "map_sensor_fault"
	MapSensorHigh           FaultCode = "map_sensor_high"
	IdleAirControlHigh      FaultCode = "idle_air_control_high"
	IdleSpeedHigh           FaultCode = "idle_speed_high"
	LambdaExceedsMinMax     FaultCode = "lambda_exceeds_min_max"
	LambdaExceedsMean       FaultCode = "lambda_exceeds_mean"
	ThermostatFault         FaultCode = "thermostat_fault"
)

// AllFaults lists every fault the engine can report, in evaluation order.
var AllFaults = []FaultCode{
	CoolantTempSensorFault,
	InletAirTempSensorFault,
	FuelPumpCircuitFault,
	ThrottlePotCircuitFault,
	MapSensorFault,
	MapSensorHigh,
	IdleAirControlHigh,
	IdleSpeedHigh,
	LambdaExceedsMinMax,
	LambdaExceedsMean,
	ThermostatFault,
}

// sensor fault flags in report order
var sensorFaults = []struct {
	column string
	fault  FaultCode
}{
	{rosco.FieldCoolantTempSensorFault, CoolantTempSensorFault},
	{rosco.FieldInletAirTempSensorFault, InletAirTempSensorFault},
	{rosco.FieldFuelPumpCircuitFault, FuelPumpCircuitFault},
	{rosco.FieldThrottlePotCircuitFault, ThrottlePotCircuitFault},
}

const (
	mapSensorFaultLimit = 90.0   // kPa, whole run median
	mapSensorIdleLimit  = 45.0   // kPa, stable idle median
	warmCoolantTemp     = 75.0   // C
	idleMinRPM          = 100.0  // stable idle band
	idleMaxRPM          = 1000.0 // stable idle band
	iacIdleLimit        = 50.0   // %
	idleSpeedLimit      = 1000.0 // rpm, warm median
	lambdaLow           = 100.0  // mV
	lambdaHigh          = 900.0  // mV
	lambdaMeanLow       = 450.0  // mV
	lambdaMeanHigh      = 550.0  // mV
	thermostatRunLength = 300    // samples, roughly one per second
)

// LambdaMeanRule selects how the lambda mean band is checked.
type LambdaMeanRule int

const (
	// LambdaMeanEither flags a mean below 450 mV or above 550 mV.
	LambdaMeanEither LambdaMeanRule = iota
	// LambdaMeanHistorical requires the mean to be below 450 mV and above
	// 550 mV at the same time, which never fires. Kept for comparing
	// against reports produced by older tooling.
	LambdaMeanHistorical
)

func (r LambdaMeanRule) String() string {
	switch r {
	case LambdaMeanEither:
		return "either"
	case LambdaMeanHistorical:
		return "historical"
	default:
		return "unknown"
	}
}

func ParseLambdaMeanRule(s string) (LambdaMeanRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "either", "or":
		return LambdaMeanEither, nil
	case "historical", "and":
		return LambdaMeanHistorical, nil
	default:
		return 0, fmt.Errorf("unknown lambda mean rule %q", s)
	}
}

func (r LambdaMeanRule) outOfBand(mean float64) bool {
	if r == LambdaMeanHistorical {
		return mean < lambdaMeanLow && mean > lambdaMeanHigh
	}
	return mean < lambdaMeanLow || mean > lambdaMeanHigh
}

type Options struct {
	LambdaMean LambdaMeanRule
}

type Result struct {
	Faults        []FaultCode
	RunLength     int
	WarmRunLength int
}

func (r *Result) Has(f FaultCode) bool {
	for _, x := range r.Faults {
		if x == f {
			return true
		}
	}
	return false
}

func (r *Result) add(f FaultCode) {
	r.Faults = append(r.Faults, f)
}

// Analyse evaluates all rules over t. An empty run fails with an
// *AggregationError. When the engine got warm but never idled in the stable
// band, the two stable idle rules do not apply and are not reported.
func Analyse(t *table.Normalized, opts Options) (*Result, error) {
	r := &Result{}
	rpm, err := column(t, rosco.FieldEngineSpeed)
	if err != nil {
		return nil, err
	}
	r.RunLength = len(rpm)

	for _, sf := range sensorFaults {
		flags, err := column(t, sf.column)
		if err != nil {
			return nil, err
		}
		mx, err := aggregate("max", stats.Max, flags, sf.column, "run")
		if err != nil {
			return nil, err
		}
		if mx > 0 {
			r.add(sf.fault)
		}
	}

	mapSensor, err := column(t, rosco.FieldMapSensor)
	if err != nil {
		return nil, err
	}
	mapMedian, err := aggregate("median", stats.Median, mapSensor, rosco.FieldMapSensor, "run")
	if err != nil {
		return nil, err
	}
	if mapMedian > mapSensorFaultLimit {
		r.add(MapSensorFault)
	}

	coolant, err := column(t, rosco.FieldCoolantTemperature)
	if err != nil {
		return nil, err
	}
	warm := t.Filter(func(i int) bool { return coolant[i] >= warmCoolantTemp })
	r.WarmRunLength = warm.Len()

	if r.WarmRunLength == 0 {
		if r.RunLength > thermostatRunLength {
			r.add(ThermostatFault)
		}
		return r, nil
	}

	// stable idle is taken over the whole run, not only the warm part
	idle := t.Filter(func(i int) bool { return rpm[i] >= idleMinRPM && rpm[i] <= idleMaxRPM })
	if idle.Len() == 0 {
		log.Debug().Msg("no stable idle samples, idle rules not applicable")
	} else {
		idleMap, _ := idle.Column(rosco.FieldMapSensor)
		m, err := aggregate("median", stats.Median, idleMap, rosco.FieldMapSensor, "stable idle")
		if err != nil {
			return nil, err
		}
		if m > mapSensorIdleLimit && mapMedian <= mapSensorFaultLimit {
			r.add(MapSensorHigh)
		}

		iac, err := column(idle, rosco.FieldIdleAirControlPosition)
		if err != nil {
			return nil, err
		}
		m, err = aggregate("median", stats.Median, iac, rosco.FieldIdleAirControlPosition, "stable idle")
		if err != nil {
			return nil, err
		}
		if m > iacIdleLimit {
			r.add(IdleAirControlHigh)
		}
	}

	warmRPM, _ := warm.Column(rosco.FieldEngineSpeed)
	m, err := aggregate("median", stats.Median, warmRPM, rosco.FieldEngineSpeed, "warm")
	if err != nil {
		return nil, err
	}
	if m > idleSpeedLimit {
		r.add(IdleSpeedHigh)
	}

	lambda, err := column(t, rosco.FieldLambdaVoltage)
	if err != nil {
		return nil, err
	}
	mn, err := aggregate("min", stats.Min, lambda, rosco.FieldLambdaVoltage, "run")
	if err != nil {
		return nil, err
	}
	mx, _ := stats.Max(lambda)
	if mn < lambdaLow && mx > lambdaHigh {
		r.add(LambdaExceedsMinMax)
	}
	mean, _ := stats.Mean(lambda)
	if opts.LambdaMean.outOfBand(mean) {
		r.add(LambdaExceedsMean)
	}

	return r, nil
}

func column(t *table.Normalized, col string) ([]float64, error) {
	v, ok := t.Column(col)
	if !ok {
		return nil, &normalize.TransformError{Kind: normalize.MissingColumn, Step: "diagnostics", Column: col}
	}
	return v, nil
}

func aggregate(name string, fn func([]float64) (float64, error), xs []float64, col, subset string) (float64, error) {
	v, err := fn(xs)
	if err != nil {
		return v, &AggregationError{Kind: EmptySubset, Aggregate: name, Column: col, Subset: subset}
	}
	return v, nil
}
