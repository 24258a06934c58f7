// Package logtest builds synthetic MEMS diagnostic logs for tests.
package logtest

import (
	"fmt"
	"strings"

	"github.com/roffe/memslog/pkg/rosco"
)

// Sample is one polling cycle, a 0x80 frame followed by a 0x7D frame.
type Sample struct {
	version rosco.SchemaVersion
	data    map[byte][]byte
}

func NewSample(v rosco.SchemaVersion) *Sample {
	s := &Sample{version: v, data: make(map[byte][]byte)}
	for _, fs := range rosco.Frames(v) {
		b := make([]byte, len(fs.Fields))
		b[0] = byte(len(fs.Fields))
		s.data[fs.Command] = b
	}
	return s
}

func (s *Sample) Version() rosco.SchemaVersion {
	return s.version
}

// Set writes a raw byte to the named field, it panics on unknown fields.
func (s *Sample) Set(field string, b byte) *Sample {
	for _, fs := range rosco.Frames(s.version) {
		for i, name := range fs.Fields {
			if name == field {
				s.data[fs.Command][i] = b
				return s
			}
		}
	}
	panic(fmt.Sprintf("logtest: no field %q in %s", field, s.version))
}

// SetWord writes a big-endian 16 bit value to a split byte pair.
func (s *Sample) SetWord(field string, v uint16) *Sample {
	s.Set(rosco.HighByte(field), byte(v>>8))
	return s.Set(rosco.LowByte(field), byte(v))
}

// Line renders the response line for a frame.
func (s *Sample) Line(code byte) string {
	b := s.data[code]
	tokens := make([]string, len(b))
	for i, v := range b {
		tokens[i] = fmt.Sprintf("%02x", v)
	}
	return fmt.Sprintf("%02x: %s", code, strings.Join(tokens, " "))
}

type Log struct {
	// VersionCode is written as a D0 announcement when set.
	VersionCode string
	Samples     []*Sample
}

// Repeat builds n samples.
func Repeat(n int, fn func(i int) *Sample) []*Sample {
	out := make([]*Sample, n)
	for i := range out {
		out[i] = fn(i)
	}
	return out
}

func (l *Log) String() string {
	var sb strings.Builder
	sb.WriteString("MEMS log capture\r\n")
	if l.VersionCode != "" {
		sb.WriteString(rosco.VersionPrefix + " " + l.VersionCode + "\r\n")
	}
	for _, s := range l.Samples {
		sb.WriteString(s.Line(rosco.CmdDataFrame80) + " \r\n")
		sb.WriteString(s.Line(rosco.CmdDataFrame7D) + " \r\n")
	}
	return sb.String()
}
