// Package obs centralizes the zerolog setup shared by the signing CLI and
// the provider packages that want a component-scoped sub-logger, instead of
// every package repeating logger.With().Str("service", X).Logger().
package obs

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger the way cmd/alexander-server
// does: RFC3339Nano timestamps, a console writer on stderr, and a parsed
// level (falling back to info on an unrecognized level string).
func Init(levelName string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// Component returns a sub-logger tagged with a "component" field, the same
// shape as the service constructors' logger.With().Str("service", X).Logger().
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Provider returns a sub-logger tagged with both a "component" field fixed
// to "reqsign" and a "provider" field naming the cloud, for use inside the
// individual cloud provider packages.
func Provider(cloud string) zerolog.Logger {
	return log.With().Str("component", "reqsign").Str("provider", cloud).Logger()
}
