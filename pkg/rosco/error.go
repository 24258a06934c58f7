package rosco

import (
	"errors"
	"fmt"
)

var ErrUnknownCommand = errors.New("unknown command")

type SchemaErrorKind int

const (
	UnknownCommand SchemaErrorKind = iota
)

type SchemaError struct {
	Kind    SchemaErrorKind
	Code    byte
	Name    string
	Version SchemaVersion
}

func (e *SchemaError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("schema: unknown command %q", e.Name)
	}
	return fmt.Sprintf("schema: unknown command 0x%02X for %s", e.Code, e.Version)
}

func (e *SchemaError) Unwrap() error {
	return ErrUnknownCommand
}
