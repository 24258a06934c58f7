// Package config loads memstool settings from a TOML file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/roffe/memslog/pkg/diag"
	"github.com/roffe/memslog/pkg/normalize"
	"github.com/roffe/memslog/pkg/rosco"
)

type Config struct {
	// Schema forces a frame layout, UnknownVersion detects it from the log.
	Schema      rosco.SchemaVersion
	Temperature normalize.TemperatureFormula
	LambdaMean  diag.LambdaMeanRule
	// FaultTexts is a directory of <fault>.md files, empty uses the built in texts.
	FaultTexts string
	Workers    int
	Debug      bool
}

func Default() *Config {
	return &Config{
		Schema:      rosco.UnknownVersion,
		Temperature: normalize.TempECUOffset,
		LambdaMean:  diag.LambdaMeanEither,
		Workers:     4,
	}
}

type fileConfig struct {
	Schema      string `toml:"schema"`
	Temperature string `toml:"temperature"`
	LambdaMean  string `toml:"lambda_mean"`
	FaultTexts  string `toml:"fault_texts"`
	Workers     int    `toml:"workers"`
	Debug       bool   `toml:"debug"`
}

// Load reads path on top of Default. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("schema") {
		v, err := ParseSchema(raw.Schema)
		if err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}
		cfg.Schema = v
	}

	if meta.IsDefined("temperature") {
		f, err := normalize.ParseTemperature(raw.Temperature)
		if err != nil {
			return nil, fmt.Errorf("parse temperature: %w", err)
		}
		cfg.Temperature = f
	}

	if meta.IsDefined("lambda_mean") {
		r, err := diag.ParseLambdaMeanRule(raw.LambdaMean)
		if err != nil {
			return nil, fmt.Errorf("parse lambda_mean: %w", err)
		}
		cfg.LambdaMean = r
	}

	if meta.IsDefined("fault_texts") {
		cfg.FaultTexts = strings.TrimSpace(raw.FaultTexts)
	}

	if meta.IsDefined("workers") {
		if raw.Workers < 1 {
			return nil, fmt.Errorf("parse workers: must be at least 1, got %d", raw.Workers)
		}
		cfg.Workers = raw.Workers
	}

	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	return cfg, nil
}

// ParseSchema accepts "auto" or empty for detection, otherwise a version
// name or ECU part number.
func ParseSchema(s string) (rosco.SchemaVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return rosco.UnknownVersion, nil
	}
	v := rosco.ParseVersion(s)
	if v == rosco.UnknownVersion {
		return v, fmt.Errorf("unknown schema %q", s)
	}
	return v, nil
}
