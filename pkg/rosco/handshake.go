package rosco

import (
	"strconv"
	"strings"
)

const (
	CmdInitA   byte = 0xCA
	CmdInitB   byte = 0x75
	CmdVersion byte = 0xD0
)

// VersionPrefix starts the log line recording the ECU answer to the D0 command.
const VersionPrefix = "ECU responded to D0 command with:"

type ECU struct {
	ID      string
	Code    string
	Version SchemaVersion
}

var ecus = []ECU{
	{"MNE101070", "99 00 02 03", VersionA},
	{"MNE101170", "99 00 03 03", VersionB},
}

// VersionFromCode resolves the version code reported by the ECU.
func VersionFromCode(code string) (ECU, bool) {
	code = strings.Join(strings.Fields(strings.ToLower(code)), " ")
	for _, e := range ecus {
		if e.Code == code {
			return e, true
		}
	}
	return ECU{}, false
}

// ECUFor returns the ECU matching a schema version.
func ECUFor(v SchemaVersion) (ECU, bool) {
	for _, e := range ecus {
		if e.Version == v {
			return e, true
		}
	}
	return ECU{}, false
}

// HandshakeStep is a byte sent to the ECU and the bytes expected back.
type HandshakeStep struct {
	Tx       []byte
	Response []byte
}

// HandshakeSequence returns the init sequence for an ECU of the given version.
// The final D0 step is answered with the ECU version code.
func HandshakeSequence(v SchemaVersion) []HandshakeStep {
	var resp []byte
	if e, ok := ECUFor(v); ok {
		resp = codeBytes(e.Code)
	}
	return []HandshakeStep{
		{Tx: []byte{CmdInitA}, Response: []byte{CmdInitA}},
		{Tx: []byte{CmdInitB}, Response: []byte{CmdInitB}},
		{Tx: []byte{CmdVersion}, Response: resp},
	}
}

func codeBytes(code string) []byte {
	var out []byte
	for _, f := range strings.Fields(code) {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil
		}
		out = append(out, byte(b))
	}
	return out
}
