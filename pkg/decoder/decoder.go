// Package decoder turns captured MEMS diagnostic log lines into raw frames.
//
// A Session carries everything that is local to one parse: the sequence
// counter, the reported ECU version and the raw token audit log. Sessions are
// not safe for concurrent use, use one per file.
package decoder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/roffe/memslog/pkg/frame"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// response lines must be longer than this after stripping line endings
	minLineLength = 50
	// two hex digit command code and a two character separator
	prefixLength = 4
	// longer lines are skipped by Decode as unrecognized
	maxLineLength = 64 * 1024
)

type Session struct {
	ID uuid.UUID

	version  rosco.SchemaVersion
	locked   bool
	reported string

	counter int
	line    int
	audit   [][]string
	skipped map[ParseErrorKind]int
	fields  map[byte][]string

	log zerolog.Logger
}

type Opt func(*Session)

// WithVersion pins the frame layout instead of resolving it from the
// version reported in the log.
func WithVersion(v rosco.SchemaVersion) Opt {
	return func(s *Session) {
		if v != rosco.UnknownVersion {
			s.version = v
			s.locked = true
		}
	}
}

func WithID(id uuid.UUID) Opt {
	return func(s *Session) {
		s.ID = id
	}
}

func NewSession(opts ...Opt) *Session {
	s := &Session{
		ID:      uuid.New(),
		skipped: make(map[ParseErrorKind]int),
		fields:  make(map[byte][]string),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = log.With().Str("session", s.ID.String()).Logger()
	return s
}

// ReportedVersion is the last version code announced in the log.
func (s *Session) ReportedVersion() string {
	return s.reported
}

// Version returns the schema used for decoding. Until the first data frame
// is seen it reflects the best guess from the reported version.
func (s *Session) Version() rosco.SchemaVersion {
	if s.locked {
		return s.version
	}
	if e, ok := rosco.VersionFromCode(s.reported); ok {
		return e.Version
	}
	return rosco.VersionA
}

// Counter is the current sequence counter.
func (s *Session) Counter() int {
	return s.counter
}

// Audit returns every accepted token list in decode order.
func (s *Session) Audit() [][]string {
	return s.audit
}

// Skipped returns how many lines were ignored for the given reason.
func (s *Session) Skipped(kind ParseErrorKind) int {
	return s.skipped[kind]
}

func (s *Session) fieldsFor(code byte) ([]string, error) {
	if !s.locked {
		s.version = s.Version()
		s.locked = true
		s.log.Debug().Str("schema", s.version.String()).Str("reported", s.reported).Msg("frame layout selected")
	}
	if f, ok := s.fields[code]; ok {
		return f, nil
	}
	f, err := rosco.FieldsFor(code, s.version)
	if err != nil {
		return nil, err
	}
	if code == rosco.Primary {
		f = append(f, rosco.FieldTimestamp)
	}
	s.fields[code] = f
	return f, nil
}

// DecodeLine decodes one line of the log. Version announcements and ignored
// lines return a nil frame, ignored lines also return a skippable *ParseError.
func (s *Session) DecodeLine(line string) (*frame.RawFrame, error) {
	s.line++

	if strings.HasPrefix(line, rosco.VersionPrefix) {
		s.reported = strings.TrimSpace(line[len(rosco.VersionPrefix):])
		return nil, nil
	}

	line = strings.TrimRight(line, " \t\r\n")
	if len(line) <= minLineLength {
		return nil, &ParseError{Kind: UnrecognizedLine, Line: s.line}
	}
	code, ok := rosco.ParseCommandCode(line[:2])
	if !ok || !rosco.IsDataFrame(code) {
		return nil, &ParseError{Kind: UnrecognizedLine, Line: s.line}
	}

	fields, err := s.fieldsFor(code)
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(line[prefixLength:])
	for _, t := range tokens {
		if len(t) != 2 {
			return nil, &ParseError{Kind: MalformedToken, Line: s.line, Command: code, Token: t}
		}
	}

	want := len(fields)
	if code == rosco.Primary {
		want--
	}
	if len(tokens) != want {
		return nil, &ParseError{Kind: FrameLengthMismatch, Line: s.line, Command: code, Want: want, Got: len(tokens)}
	}

	index := s.counter
	if code == rosco.Primary {
		tokens = append(tokens, fmt.Sprintf("%02x", index))
		s.counter++
	}
	s.audit = append(s.audit, tokens)

	return frame.New(code, index, fields, tokens), nil
}

// Frames holds the two frame streams of a parsed log.
type Frames struct {
	Primary   []*frame.RawFrame
	Secondary []*frame.RawFrame
}

// Decode reads the whole log. Ignored and malformed lines are skipped, a
// structural error stops the parse and no frames are returned.
func (s *Session) Decode(r io.Reader) (*Frames, error) {
	out := &Frames{}
	sp := &lineSplitter{max: maxLineLength, drop: func() {
		s.line++
		s.skipped[UnrecognizedLine]++
		s.log.Debug().Int("line", s.line).Msg("skipping overlong line")
	}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	sc.Split(sp.split)
	for sc.Scan() {
		f, err := s.DecodeLine(sc.Text())
		if err != nil {
			if IsSkippable(err) {
				pe := err.(*ParseError)
				s.skipped[pe.Kind]++
				if pe.Kind != UnrecognizedLine {
					s.log.Debug().Err(err).Msg("skipping line")
				}
				continue
			}
			return nil, err
		}
		if f == nil {
			continue
		}
		switch f.Command() {
		case rosco.Primary:
			out.Primary = append(out.Primary, f)
		default:
			out.Secondary = append(out.Secondary, f)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	s.log.Debug().
		Int("primary", len(out.Primary)).
		Int("secondary", len(out.Secondary)).
		Int("unrecognized", s.skipped[UnrecognizedLine]).
		Int("malformed", s.skipped[MalformedToken]).
		Msg("log decoded")
	return out, nil
}
