package rosco

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Command is a single byte request understood by the MEMS ECU.
type Command struct {
	Name string
	Code byte
}

var commands = []Command{
	{"open_fuel_pump_relay", 0x01},
	{"open_ptc_relay", 0x02},
	{"open_aircond_relay", 0x03},
	{"close_purge_valve", 0x08},
	{"open_heater_relay", 0x09},
	{"reset_all_adjustments", 0x0F},
	{"close_fuel_pump_relay", 0x11},
	{"close_ptc_relay", 0x12},
	{"close_aircond_relay", 0x13},
	{"open_purge_valve", 0x18},
	{"close_heater_relay", 0x19},
	{"close_fan_relay", 0x1E},
	{"inc_fuel_trim", 0x79},
	{"dec_fuel_trim", 0x7A},
	{"inc_fuel_trim_alt", 0x7B},
	{"dec_fuel_trim_alt", 0x7C},
	{"request_data_frame_a", CmdDataFrame7D},
	{"request_data_frame_b", CmdDataFrame80},
	{"inc_idle_decay", 0x89},
	{"dec_idle_decay", 0x8A},
	{"inc_idle_speed", 0x91},
	{"dec_idle_speed", 0x92},
	{"inc_ignition_advance", 0x93},
	{"dec_ignition_advance", 0x94},
	{"clear_fault_codes", 0xCC},
	{"heartbeat", 0xF4},
	{"actuate_fuel_injector", 0xF7},
	{"fire_ignition_coil", 0xF8},
	{"reset_ecu", 0xFA},
	{"open_iac_by_one_step", 0xFD},
	{"close_iac_by_one_step", 0xFE},
	{"current_iac_position", 0xFF},
}

// CodeFor returns the command byte for a command name.
func CodeFor(name string) (byte, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range commands {
		if c.Name == name {
			return c.Code, nil
		}
	}
	return 0, &SchemaError{Kind: UnknownCommand, Name: name}
}

// Commands returns the command table.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// ParseCommandCode parses the two character hex code that starts a response line.
func ParseCommandCode(s string) (byte, bool) {
	if len(s) != 2 {
		return 0, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, false
	}
	return b[0], true
}

func (c Command) String() string {
	return fmt.Sprintf("0x%02X %s", c.Code, c.Name)
}
