package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedLine    = errors.New("unrecognized line")
	ErrFrameLengthMismatch = errors.New("frame length mismatch")
	ErrMalformedToken      = errors.New("malformed token")
)

type ParseErrorKind int

const (
	UnrecognizedLine ParseErrorKind = iota
	FrameLengthMismatch
	MalformedToken
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnrecognizedLine:
		return "unrecognized line"
	case FrameLengthMismatch:
		return "frame length mismatch"
	case MalformedToken:
		return "malformed token"
	default:
		return "unknown parse error"
	}
}

type ParseError struct {
	Kind    ParseErrorKind
	Line    int
	Command byte
	Token   string
	Want    int
	Got     int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case FrameLengthMismatch:
		return fmt.Sprintf("line %d: frame 0x%02X has %d tokens, schema expects %d", e.Line, e.Command, e.Got, e.Want)
	case MalformedToken:
		return fmt.Sprintf("line %d: frame 0x%02X malformed token %q", e.Line, e.Command, e.Token)
	default:
		return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	}
}

func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case FrameLengthMismatch:
		return ErrFrameLengthMismatch
	case MalformedToken:
		return ErrMalformedToken
	default:
		return ErrUnrecognizedLine
	}
}

// Fatal reports if the error aborts parsing of the current file.
func (e *ParseError) Fatal() bool {
	return e.Kind == FrameLengthMismatch
}

// IsSkippable reports if the line that produced err should be ignored and
// parsing continued.
func IsSkippable(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return !pe.Fatal()
	}
	return false
}
