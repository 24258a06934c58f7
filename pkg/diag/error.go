package diag

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySubset      = errors.New("empty subset")
	ErrMissingFaultText = errors.New("missing fault text")
)

type AggregationErrorKind int

const (
	EmptySubset AggregationErrorKind = iota
)

type AggregationError struct {
	Kind      AggregationErrorKind
	Aggregate string
	Column    string
	Subset    string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("diagnostics: %s(%s) over empty %s subset", e.Aggregate, e.Column, e.Subset)
}

func (e *AggregationError) Unwrap() error {
	return ErrEmptySubset
}

type ReportErrorKind int

const (
	MissingFaultText ReportErrorKind = iota
)

type ReportError struct {
	Kind  ReportErrorKind
	Fault FaultCode
	Err   error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("report: no text for fault %q: %v", e.Fault, e.Err)
	}
	return fmt.Sprintf("report: no text for fault %q", e.Fault)
}

func (e *ReportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMissingFaultText, e.Err}
	}
	return []error{ErrMissingFaultText}
}
