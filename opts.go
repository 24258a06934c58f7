package memslog

import (
	"github.com/roffe/memslog/pkg/config"
	"github.com/roffe/memslog/pkg/diag"
	"github.com/roffe/memslog/pkg/faults"
	"github.com/roffe/memslog/pkg/normalize"
	"github.com/roffe/memslog/pkg/rosco"
)

type settings struct {
	schema      rosco.SchemaVersion
	temperature normalize.TemperatureFormula
	lambdaMean  diag.LambdaMeanRule
	texts       faults.Source
}

type Option func(s *settings) error

func newSettings(opts ...Option) (*settings, error) {
	s := &settings{
		schema:      rosco.UnknownVersion,
		temperature: normalize.TempECUOffset,
		lambdaMean:  diag.LambdaMeanEither,
		texts:       faults.Embedded(),
	}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithSchemaVersion forces the frame layout, UnknownVersion detects it from
// the version the ECU reported in the log.
func WithSchemaVersion(v rosco.SchemaVersion) Option {
	return func(s *settings) error {
		s.schema = v
		return nil
	}
}

func WithTemperature(f normalize.TemperatureFormula) Option {
	return func(s *settings) error {
		s.temperature = f
		return nil
	}
}

func WithLambdaMeanRule(r diag.LambdaMeanRule) Option {
	return func(s *settings) error {
		s.lambdaMean = r
		return nil
	}
}

func WithFaultTexts(src faults.Source) Option {
	return func(s *settings) error {
		s.texts = src
		return nil
	}
}

// WithConfig applies a loaded configuration. A fault text directory in the
// config takes precedence over the built in texts, missing files fall back
// to them.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) error {
		s.schema = cfg.Schema
		s.temperature = cfg.Temperature
		s.lambdaMean = cfg.LambdaMean
		if cfg.FaultTexts != "" {
			dir, err := faults.Dir(cfg.FaultTexts)
			if err != nil {
				return err
			}
			s.texts = faults.Fallback(dir, faults.Embedded())
		}
		return nil
	}
}
