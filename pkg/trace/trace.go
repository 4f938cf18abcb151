// Package trace builds the diagnostic loggers used by the compiler passes.
// Tracing is off unless asked for; a disabled logger costs nothing.
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xyproto/env/v2"
)

// Environment variables read by FromEnv
const (
	EnvTrace     = "RALPH_JUMP_TRACE"
	EnvLogLevel  = "RALPH_JUMP_LOG_LEVEL"
	EnvMaxRounds = "RALPH_JUMP_MAX_ROUNDS"
)

// ComponentField names the log field identifying the emitting component
const ComponentField = "component"

// DefaultLevel is used when tracing is enabled without a level
const DefaultLevel = "debug"

// Config selects whether and how much to trace
type Config struct {
	Enabled bool
	Level   string
}

// FromEnv reads the tracing configuration from the environment
func FromEnv() Config {
	return Config{
		Enabled: env.Bool(EnvTrace),
		Level:   env.Str(EnvLogLevel, DefaultLevel),
	}
}

// MaxRoundsFromEnv returns the optimizer round limit set in the environment,
// or def.
func MaxRoundsFromEnv(def int) int {
	return env.Int(EnvMaxRounds, def)
}

// New returns a JSON logger writing to w at the given level
func New(w io.Writer, level string) (zerolog.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	return zerolog.New(w).Level(lvl), nil
}

// Logger returns the logger described by c, or a disabled one
func (c Config) Logger(w io.Writer) (zerolog.Logger, error) {
	if !c.Enabled {
		return zerolog.Nop(), nil
	}
	return New(w, c.Level)
}

// Component tags every event of l with the component name
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(ComponentField, name).Logger()
}
