// Package logging sets up the global zerolog logger for memstool.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "MEMSTOOL_LOG_LEVEL"
	EnvLogNoColor = "MEMSTOOL_LOG_NOCOLOR"
)

type Config struct {
	Level   zerolog.Level
	NoColor bool
	Out     io.Writer
}

// DefaultConfig logs info and above to stderr, debug lowers the level.
func DefaultConfig(debug bool) Config {
	cfg := Config{Level: zerolog.InfoLevel, Out: os.Stderr}
	if debug {
		cfg.Level = zerolog.DebugLevel
	}
	return cfg
}

// Init installs a console logger built from DefaultConfig and the
// environment overrides.
func Init(debug bool) {
	cfg := DefaultConfig(debug)
	applyEnvOverrides(&cfg)
	Configure(cfg)
}

func Configure(cfg Config) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Str("app", "memstool").Logger()
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor))); err == nil {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
