package normalize

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrNonHexValue   = errors.New("non hex value")
)

type TransformErrorKind int

const (
	MissingColumn TransformErrorKind = iota
	NonHexValue
)

type TransformError struct {
	Kind   TransformErrorKind
	Step   string
	Column string
	// Row is the sequence index of the offending row.
	Row   int
	Value string
}

func (e *TransformError) Error() string {
	switch e.Kind {
	case NonHexValue:
		return fmt.Sprintf("%s: row %d column %q: %q is not hex", e.Step, e.Row, e.Column, e.Value)
	default:
		return fmt.Sprintf("%s: missing column %q", e.Step, e.Column)
	}
}

func (e *TransformError) Unwrap() error {
	if e.Kind == NonHexValue {
		return ErrNonHexValue
	}
	return ErrMissingColumn
}
