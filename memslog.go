// Package memslog decodes Rover MEMS 1.6 diagnostic logs and diagnoses
// engine faults from them.
//
//	run, err := memslog.AnalyseFile("drive.txt")
//	if err != nil {
//		return err
//	}
//	fmt.Println(run.Report)
package memslog

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/roffe/memslog/pkg/decoder"
	"github.com/roffe/memslog/pkg/diag"
	"github.com/roffe/memslog/pkg/normalize"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/roffe/memslog/pkg/table"
	"github.com/rs/zerolog/log"
)

// Run is the outcome of analysing one log.
type Run struct {
	SessionID uuid.UUID
	// ReportedVersion is the raw D0 answer found in the log, if any.
	ReportedVersion string
	ECUID           string
	Version         rosco.SchemaVersion
	// Raw holds every accepted token list in decode order.
	Raw [][]string

	Table     *table.RunTable
	Metrics   *table.Normalized
	Diagnosis *diag.Result
	Report    string
}

// Analyse decodes, normalizes and diagnoses the log read from r.
func Analyse(r io.Reader, opts ...Option) (*Run, error) {
	s, err := newSettings(opts...)
	if err != nil {
		return nil, err
	}
	return s.analyse(r)
}

// AnalyseFile is Analyse over the named file.
func AnalyseFile(path string, opts ...Option) (*Run, error) {
	s, err := newSettings(opts...)
	if err != nil {
		return nil, err
	}
	return s.analyseFile(path)
}

func (s *settings) analyseFile(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	run, err := s.analyse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return run, nil
}

func (s *settings) analyse(r io.Reader) (*Run, error) {
	sess := decoder.NewSession(decoder.WithVersion(s.schema))
	l := log.With().Str("session", sess.ID.String()).Logger()

	frames, err := sess.Decode(r)
	if err != nil {
		return nil, err
	}
	run := &Run{
		SessionID:       sess.ID,
		ReportedVersion: sess.ReportedVersion(),
		Version:         sess.Version(),
		Raw:             sess.Audit(),
	}
	if e, ok := rosco.ECUFor(run.Version); ok {
		run.ECUID = e.ID
	}

	run.Table, err = table.Assemble(run.Version, frames.Primary, frames.Secondary)
	if err != nil {
		return nil, err
	}
	run.Metrics, err = normalize.Normalize(run.Table, normalize.Options{Temperature: s.temperature})
	if err != nil {
		return nil, err
	}
	run.Diagnosis, err = diag.Analyse(run.Metrics, diag.Options{LambdaMean: s.lambdaMean})
	if err != nil {
		return nil, err
	}
	l.Debug().
		Str("ecu", run.ECUID).
		Int("samples", run.Diagnosis.RunLength).
		Int("warm", run.Diagnosis.WarmRunLength).
		Int("faults", len(run.Diagnosis.Faults)).
		Msg("diagnosis complete")

	run.Report, err = diag.Render(run.Diagnosis, s.texts)
	if err != nil {
		// every log would fail the same way
		return nil, Unrecoverable(err)
	}
	return run, nil
}
