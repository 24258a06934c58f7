package rosco

// Named fields referenced by the normalizer and the diagnostic engine.
const (
	FieldTimestamp = "timestamp"

	FieldEngineSpeed        = "engine_speed"
	FieldIdleSpeedDeviation = "idle_speed_deviation"
	FieldCoilTime           = "coil_time"
	FieldFaultCodes         = "fault_codes"

	FieldCoolantTemperature   = "coolant_temperature"
	FieldAmbientTemperature   = "ambient_temperature"
	FieldIntakeAirTemperature = "intake_air_temperature"
	FieldFuelTemperature      = "fuel_temperature"

	FieldMapSensor              = "map_sensor"
	FieldBatteryVoltage         = "battery_voltage"
	FieldThrottlePotVoltage     = "throttle_pot_voltage"
	FieldShortTermTrim          = "short_term_trim"
	FieldLongTermTrim           = "long_term_trim"
	FieldIgnitionAdvance        = "ignition_advance"
	FieldIdleAirControlPosition = "idle_air_control_position"
	FieldLambdaVoltage          = "lambda_voltage"
	FieldThrottleAngle          = "throttle_angle"
	FieldAirFuelRatio           = "air_fuel_ratio"
	FieldIdleSpeedOffset        = "idle_speed_offset"

	// Split fault bytes (VersionA).
	FieldSensorFaultByte  = "coolant_temp_inlet_air_temp_sensor_fault"
	FieldCircuitFaultByte = "fuel_pump_throttle_pot_circuit_fault"

	// Derived boolean fault columns.
	FieldCoolantTempSensorFault  = "coolant_temp_sensor_fault"
	FieldInletAirTempSensorFault = "inlet_air_temp_sensor_fault"
	FieldFuelPumpCircuitFault    = "fuel_pump_circuit_fault"
	FieldThrottlePotCircuitFault = "throttle_pot_circuit_fault"
)

// HighByte and LowByte name the two raw halves of a split 16 bit field.
func HighByte(field string) string { return field + "_high_byte" }
func LowByte(field string) string { return field + "_low_byte" }

// MergedFields lists the 16 bit quantities sent as big-endian byte pairs,
// in the order they are reassembled.
var MergedFields = []string{
	FieldEngineSpeed,
	FieldIdleSpeedDeviation,
	FieldCoilTime,
}

// TemperatureFields are the columns reported by the ECU in its temperature counts.
var TemperatureFields = []string{
	FieldCoolantTemperature,
	FieldAmbientTemperature,
	FieldIntakeAirTemperature,
	FieldFuelTemperature,
}

// IsPlaceholder reports if the field name is a reserved/unknown byte slot.
func IsPlaceholder(field string) bool {
	return len(field) > 2 && (field[:2] == "0x" || field[:3] == "80x")
}

// FaultFields are the derived fault flag columns, in report order.
var FaultFields = []string{
	FieldCoolantTempSensorFault,
	FieldInletAirTempSensorFault,
	FieldFuelPumpCircuitFault,
	FieldThrottlePotCircuitFault,
}
